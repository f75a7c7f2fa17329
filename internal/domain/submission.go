package domain

const orderIDPrefix = "Shopify Order ID: "

// Attachment references an uploaded file held in temporary storage.
type Attachment struct {
	FileName    string
	Path        string
	ContentType string
	SizeBytes   int64
}

// Submission is the normalized form of one incoming support request.
type Submission struct {
	Subject        string
	Description    string
	OrderID        string
	RequesterName  string
	RequesterEmail string
	Attachment     *Attachment
}

// HasAttachment reports whether a file came with the submission.
func (s Submission) HasAttachment() bool {
	return s.Attachment != nil
}

// ComposeDescription prefixes the order id, when present, to the description.
func ComposeDescription(s Submission) string {
	if s.OrderID == "" {
		return s.Description
	}
	return orderIDPrefix + s.OrderID + "\n\n" + s.Description
}
