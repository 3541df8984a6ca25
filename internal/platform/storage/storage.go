// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

/*
Package storage provides the media storage abstraction for uploaded files.

Book PDFs, past-paper scans, and thumbnails are passed through to an
S3-compatible object store. Only catalog modules consume this package —
the authentication core never touches media storage.
*/
package storage

import (
	"context"
	"io"
)

// Backend defines the contract for an object storage provider.
type Backend interface {

	/*
		Upload stores an object and returns its publicly reachable URL.

		Parameters:
		  - context: context.Context
		  - key: string (object path, e.g. "books/0192ab...pdf")
		  - reader: io.Reader (object payload)
		  - size: int64
		  - contentType: string

		Returns:
		  - string: Public URL of the stored object
		  - error: Upload failures
	*/
	Upload(context context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	/*
		Delete removes an object by its public URL. Unknown URLs are a no-op.

		Parameters:
		  - context: context.Context
		  - fileURL: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, fileURL string) error

	/*
		Ping verifies the storage backend is reachable.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Connectivity failures
	*/
	Ping(context context.Context) error
}
