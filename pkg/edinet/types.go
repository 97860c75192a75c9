package edinet

// DocumentList is the response of the documents.json endpoint.
type DocumentList struct {
	Metadata Metadata   `json:"metadata"`
	Results  []Document `json:"results"`
}

// Metadata carries the list-level status block.
type Metadata struct {
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	Message         string    `json:"message"`
	ResultSet       ResultSet `json:"resultset"`
	ProcessDateTime string    `json:"processDateTime"`
}

// ResultSet reports how many documents the list holds.
type ResultSet struct {
	Count int `json:"count"`
}

// Document is one filing entry in the list. Flag fields are strings
// ("0"/"1") in the upstream JSON.
type Document struct {
	DocID          string `json:"docID"`
	EdinetCode     string `json:"edinetCode"`
	SecCode        string `json:"secCode"`
	FilerName      string `json:"filerName"`
	DocTypeCode    string `json:"docTypeCode"`
	DocDescription string `json:"docDescription"`
	SubmitDateTime string `json:"submitDateTime"`
	PeriodStart    string `json:"periodStart"`
	PeriodEnd      string `json:"periodEnd"`
	XbrlFlag       string `json:"xbrlFlag"`
	CsvFlag        string `json:"csvFlag"`
	PdfFlag        string `json:"pdfFlag"`
}

// HasXBRL reports whether the filing ships XBRL data.
func (d Document) HasXBRL() bool {
	return d.XbrlFlag == "1"
}

// IsAnnualReport reports whether the filing is a 有価証券報告書.
func (d Document) IsAnnualReport() bool {
	return d.DocTypeCode == DocTypeAnnualReport
}
