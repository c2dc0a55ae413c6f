package model

// Invoice is the payload rendered into a PDF document. Fields are read ad hoc
// from the request body and need not correspond to a stored part.
type Invoice struct {
	Date      string   `json:"date"`
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	Name      string   `json:"name"`
	Fuel      string   `json:"fuel"`
	Engine    string   `json:"engine"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Total     *float64 `json:"total"`
	Location  string   `json:"location"`
	Note      string   `json:"note"`
	ImagePath string   `json:"image"`
}
