package audit

import (
	"context"
	"errors"
)

// Audit records a query that was submitted to, or received by, a
// query-execution endpoint.
type Audit interface {
	Write(context.Context, *QueryData) error
}

type QueryData struct {
	Query     string
	User      string
	RequestID string
	Endpoint  string
	Timestamp int64
}

type multiAudit []Audit

// Multi writes to every sink and joins their errors.
func Multi(audits ...Audit) Audit {
	m := make(multiAudit, 0, len(audits))
	for _, a := range audits {
		if a != nil {
			m = append(m, a)
		}
	}
	return m
}

func (m multiAudit) Write(ctx context.Context, q *QueryData) error {
	var errs []error
	for _, a := range m {
		if err := a.Write(ctx, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
