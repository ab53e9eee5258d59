package domain

// KeyPrefix namespaces all keys this service reads from the store.
const KeyPrefix = "unirag:"

// Tenant is a university profile as written by the external crawling
// pipeline. The engine only reads it.
type Tenant struct {
	ID           string
	Name         string
	WebsiteURL   string
	Location     string
	Kind         string // public, private, ...
	Established  string
	ContactEmail string
	ContactPhone string
}
