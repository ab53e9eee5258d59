package chat

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// noDataNotice is injected instead of the context block when retrieval
// found nothing, so the model discloses the gap instead of fabricating.
const noDataNotice = "(No documents have been uploaded or crawled for this university yet.)"

// systemPrompt builds the grounding instruction for one answer. The rules
// force the model to (a) ground factual claims only in the supplied
// context, (b) disclose when information is absent, and (c) cite sources
// by index.
func systemPrompt(t domain.Tenant, a domain.Assembled) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert university advisor chatbot for %q.\n\n", t.Name)

	b.WriteString("## Your Knowledge Base\n")
	b.WriteString(tenantInfo(t))
	b.WriteByte('\n')

	if a.HasSources {
		b.WriteString(a.Text)
	} else {
		b.WriteString(noDataNotice)
	}

	b.WriteString(`

## Rules

1. University facts must be grounded in the VERIFIED UNIVERSITY DATA above. Never invent fees, deadlines, program names, locations, contacts, or policies.
2. For general writing/English tasks you may use general language skills, but any university-specific fact must come from the verified data.
3. If the requested university information is not in the sources above, say so honestly: "I don't have that specific information in my knowledge base. You may want to check the university's official website or contact their admissions office directly."
4. Only quote numbers (fees, percentages, dates, merit scores) that appear exactly in the sources, and cite which source they came from.
5. Be helpful and conversational; structure answers with a direct answer first and bullet points for details.
6. End every answer that used sources with "Sources:" followed by the source indexes you used, e.g. "Sources: [1], [3]".`)

	return b.String()
}

// tenantInfo renders the university profile block. Empty fields are omitted.
func tenantInfo(t domain.Tenant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "University: %s\n", t.Name)

	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	add("Website", t.WebsiteURL)
	add("Location", t.Location)
	add("Type", t.Kind)
	add("Established", t.Established)
	add("Email", t.ContactEmail)
	add("Phone", t.ContactPhone)

	return b.String()
}
