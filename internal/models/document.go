package models

// Document represents a single source document configured at startup.
// Raw holds the downloaded PDF bytes and is released after parsing.
type Document struct {
	ID       string `json:"id"` // doc_{uuid}
	Name     string `json:"name"`
	Language string `json:"language"`
	URL      string `json:"url"`

	Raw   []byte `json:"-"`
	Pages []Page `json:"pages,omitempty"`
}

// Page is the extracted text of a single PDF page.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Chunk is an overlapping text window cut from a document page.
// Embedding stays nil until the embedding pass populates it; chunks
// whose embedding failed are excluded from retrieval.
type Chunk struct {
	ID        string    `json:"id"` // chunk_{uuid}
	Document  string    `json:"document"`
	Page      int       `json:"page"`
	Index     int       `json:"index"` // sequence within the document
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// Embedded reports whether the chunk carries an embedding vector.
func (c *Chunk) Embedded() bool {
	return len(c.Embedding) > 0
}

// ScoredChunk pairs a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Source describes the provenance of one retrieved context chunk,
// as shown to the user alongside the answer.
type Source struct {
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// Answer is the result of a question-answer interaction.
type Answer struct {
	Text    string   `json:"text"`
	Model   string   `json:"model"` // model that produced the answer
	Sources []Source `json:"sources"`
}

// DocumentReport summarizes how one configured document fared during
// ingestion.
type DocumentReport struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Chunks   int    `json:"chunks"`
	Embedded int    `json:"embedded"`
	Omitted  int    `json:"omitted"` // chunks dropped by failed embedding batches
	Error    string `json:"error,omitempty"`
}
