package boggle

// SendCallback is invoked exactly once per Send, after the text has been fully
// written (err is nil) or once the write has failed or been discarded.
type SendCallback func(err error, payload any)

// ReceiveCallback is invoked exactly once per Receive.
//
// On success line holds the text up to, but not including, the newline, with a
// trailing carriage return removed, and err is nil. A clean end of stream is
// reported as io.EOF. Any other non-nil err is a transport failure.
type ReceiveCallback func(line string, err error, payload any)

// sendRequest is a queued outbound unit of work.
type sendRequest struct {
	data    []byte
	onSent  SendCallback
	payload any
}

// receiveRequest is a queued request for the next undelivered line.
type receiveRequest struct {
	onLine  ReceiveCallback
	payload any
}

func (r sendRequest) complete(err error) {
	if r.onSent != nil {
		r.onSent(err, r.payload)
	}
}

func (r receiveRequest) complete(line string, err error) {
	if r.onLine != nil {
		r.onLine(line, err, r.payload)
	}
}
