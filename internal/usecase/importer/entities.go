package importer

// Record is one historical loan row as it comes out of a spreadsheet.
type Record struct {
	PIN          string `json:"pin"`
	Amount       int64  `json:"amount"`
	ApprovedDate string `json:"approved_date"`
	ApprovedBy   string `json:"approved_by,omitempty"`

	// Malformed is set by decoders when the row could not be read; the
	// record then fails as invalid without touching storage.
	Malformed string `json:"-"`
}

type Code string

const (
	CodeInvalid   Code = "invalid"
	CodeNotFound  Code = "not_found"
	CodeDuplicate Code = "duplicate"
	CodeCancelled Code = "cancelled"
	CodeError     Code = "error"
)

// Result never carries a Go error; failures are described in Error and Code.
type Result struct {
	Success    bool   `json:"success"`
	LoanID     string `json:"loan_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Code       Code   `json:"code,omitempty"`
}

type BatchResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Results  []Result `json:"results"`
}
