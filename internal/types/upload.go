package types

import "io"

// Upload is a file received from a client, already opened for reading
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}
