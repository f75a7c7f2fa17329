package helpdesk

// TicketRequest is the body of POST /api/v2/requests.json.
type TicketRequest struct {
	Request RequestBody `json:"request"`
}

// RequestBody describes the ticket to open.
type RequestBody struct {
	Subject   string    `json:"subject"`
	Comment   Comment   `json:"comment"`
	Requester Requester `json:"requester"`
}

// Comment is the first comment of the ticket. Uploads is omitted when nil.
type Comment struct {
	Body    string   `json:"body"`
	Uploads []string `json:"uploads,omitempty"`
}

// Requester identifies the end user the ticket is opened for.
type Requester struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UploadResponse is the success body of POST /api/v2/uploads.json.
type UploadResponse struct {
	Upload struct {
		Token string `json:"token"`
	} `json:"upload"`
}

// Response carries the raw status and body of a backend call.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
