package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownDataSource = errors.New("unknown data source")

// DataSourceError reports a failed roster, rank, history or presence read.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// RemoteTriggerError is returned when the remote refresh endpoint answers with a non-success status.
type RemoteTriggerError struct {
	StatusCode int
	Body       string
}

func (e *RemoteTriggerError) Error() string {
	return fmt.Sprintf("remote refresh failed with status %d", e.StatusCode)
}
