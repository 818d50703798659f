package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAudit struct {
	written []*QueryData
	err     error
}

func (r *recordingAudit) Write(_ context.Context, q *QueryData) error {
	r.written = append(r.written, q)
	return r.err
}

func TestMulti(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       func() []*recordingAudit
		error       bool
		want        []string
	}{
		{
			"every sink receives the query",
			func() []*recordingAudit {
				return []*recordingAudit{{}, {}}
			},
			false,
			nil,
		},
		{
			"failing sink does not stop the others",
			func() []*recordingAudit {
				return []*recordingAudit{{err: errors.New("test")}, {}}
			},
			true,
			[]string{"test"},
		},
		{
			"errors from every failing sink are reported",
			func() []*recordingAudit {
				return []*recordingAudit{{err: errors.New("test1")}, {err: errors.New("test2")}}
			},
			true,
			[]string{"test1", "test2"},
		},
		{
			"no sinks",
			func() []*recordingAudit {
				return nil
			},
			false,
			nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			sinks := tc.given()
			audits := make([]Audit, 0, len(sinks)+1)
			for _, s := range sinks {
				audits = append(audits, s)
			}
			audits = append(audits, nil)

			q := &QueryData{Query: "select 1;", User: "test"}
			err := Multi(audits...).Write(context.TODO(), q)

			if tc.error {
				require.Error(t, err)
				for _, w := range tc.want {
					assert.Contains(t, err.Error(), w)
				}
			} else {
				require.NoError(t, err)
			}

			for _, s := range sinks {
				require.Len(t, s.written, 1)
				assert.Same(t, q, s.written[0])
			}
		})
	}
}
