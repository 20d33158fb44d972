package geminiserver

import (
	"io"
	"strconv"
)

// Status is a two-digit Gemini response status.
type Status int

// Status codes written by the server.
const (
	StatusSuccess  Status = 20
	StatusSlowDown Status = 44
	StatusNotFound Status = 51
)

// Meta values for bodiless responses.
const (
	metaNotFound = "Not Found"
	// retry-after seconds for SLOW DOWN
	metaSlowDown = "1"
)

// String returns the status as sent on the wire.
func (s Status) String() string {
	return strconv.Itoa(int(s))
}

// WriteResponse writes "<status> <meta>\r\n" followed by body. The body is
// not framed; the caller ends it by closing the connection.
func WriteResponse(w io.Writer, status Status, meta string, body []byte) error {
	header := make([]byte, 0, len(meta)+5)
	header = strconv.AppendInt(header, int64(status), 10)
	header = append(header, ' ')
	header = append(header, meta...)
	header = append(header, '\r', '\n')

	if _, err := w.Write(header); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}
