package domain

// StockRecord is one normalized inventory row. SKU and CurrentStock are the
// required fields; everything else is optional enrichment kept only when the
// source file carried it and the value survived validation.
type StockRecord struct {
	SKU          string  `json:"sku" validate:"required,min=1"`
	CurrentStock int     `json:"currentStock" validate:"min=0"`
	Name         string  `json:"name,omitempty"`
	Price        float64 `json:"price,omitempty" validate:"min=0"`
	Category     string  `json:"category,omitempty"`
}

// ParseResult is the complete outcome of ingesting one stock report. Errors
// are file-level and fatal; Warnings are row-level and informational. Success
// means at least one row normalized cleanly, so a result can carry both
// records and warnings at the same time.
type ParseResult struct {
	Success  bool          `json:"success"`
	Data     []StockRecord `json:"data"`
	Errors   []string      `json:"errors"`
	Warnings []string      `json:"warnings"`
	Metadata ParseMetadata `json:"metadata"`
}

// ParseMetadata describes how the file was interpreted: row accounting,
// platform fingerprint, detected file characteristics, and the header-to-field
// mapping the classifier settled on.
type ParseMetadata struct {
	TotalRows        int               `json:"totalRows"`
	ValidRows        int               `json:"validRows"`
	SkippedRows      int               `json:"skippedRows"`
	DetectedPlatform string            `json:"detectedPlatform"`
	Confidence       float64           `json:"confidence"`
	FileFormat       string            `json:"fileFormat"`
	Encoding         string            `json:"encoding"`
	Delimiter        string            `json:"delimiter,omitempty"`
	DetectedColumns  map[string]string `json:"detectedColumns"`
	Suggestions      Suggestions       `json:"suggestions"`
}

// Suggestions carries the hints a review UI needs when classification was
// incomplete: headers that might be the missing SKU or stock column, and
// every header mapped to no field at all.
type Suggestions struct {
	PossibleSKU     []string `json:"possibleSku"`
	PossibleStock   []string `json:"possibleStock"`
	UnmappedColumns []string `json:"unmappedColumns"`
}

// FieldCandidates ranks the best-matching headers for one semantic field,
// used by callers that offer manual column mapping. Score is the best
// candidate's match score.
type FieldCandidates struct {
	Score   float64  `json:"score"`
	Headers []string `json:"headers"`
}
