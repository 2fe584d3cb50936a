package domain

// StoreState is the snapshot of the whole store tree written by the
// persistence bridge and fed back at startup.
type StoreState struct {
	Products []Product     `json:"products"`
	View     []Product     `json:"filtered_products"`
	Criteria ViewCriteria  `json:"criteria"`
	Status   RequestStatus `json:"status"`
	Cart     []CartLine    `json:"cart"`
}
