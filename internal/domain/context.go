package domain

// Citation points the downstream consumer at one context block.
type Citation struct {
	Index  int        `json:"index"`
	Title  string     `json:"title"`
	Source SourceType `json:"source"`
	URL    string     `json:"url,omitempty"`
}

// Assembled is the final output of a retrieval pipeline run: the labeled
// context text handed to the language-model prompt builder plus citation
// metadata. HasSources is the explicit "no data" signal -- when false the
// consumer must disclose missing information instead of answering.
type Assembled struct {
	Text        string
	Citations   []Citation
	SourceTypes []SourceType
	TotalChars  int
	HasSources  bool
}
