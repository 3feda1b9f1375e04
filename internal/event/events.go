package event

type Type string

const (
	GroupSubmittedEvent Type = "GroupSubmittedEvent"
	BulkProgressEvent   Type = "BulkProgressEvent"
)

type GroupSubmitted struct {
	Action string
	Sender string
	TxId   string
}

type BulkProgress struct {
	Action    string
	Sender    string
	Completed int
	Total     int
}
