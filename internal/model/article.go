package model

// Article is one bibliographic record retrieved from PubMed.
// All fields except Causal are fixed at search time; Causal is filled
// in by the causal-analysis stage.
type Article struct {
	PMID     string `json:"pmid"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Journal  string `json:"journal,omitempty"`
	Authors  string `json:"authors,omitempty"` // "Fore Last; Fore Last; ..."
	PubDate  string `json:"pub_date,omitempty"`

	// Causal is the raw LLM output for this abstract, expected (but
	// not guaranteed) to contain zero or more "(Entity A, Entity B)"
	// groups. Empty on per-row failure.
	Causal string `json:"causal,omitempty"`
}
