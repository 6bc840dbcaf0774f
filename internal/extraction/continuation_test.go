package extraction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsContinuation(t *testing.T) {
	cases := []struct {
		name string
		line string
		want bool
	}{
		{name: "dash bullet", line: "- check the DB migration", want: true},
		{name: "star bullet", line: "* notify QA", want: true},
		{name: "numbered dot", line: "1. update schema", want: true},
		{name: "numbered paren", line: "12) ping infra", want: true},
		{name: "action prefix", line: "Action: deploy by Friday", want: true},
		{name: "action item prefix", line: "ACTION ITEM assigned to Sam", want: true},
		{name: "decision prefix", line: "Decision: ship it", want: true},
		{name: "notes prefix", line: "notes: flaky in CI", want: true},
		{name: "discussion prefix", line: "Discussion: rollout plan", want: true},
		{name: "bullet without space", line: "-nospace", want: false},
		{name: "number without separator", line: "12 users affected", want: false},
		{name: "plain prose", line: "then we moved on", want: false},
		{name: "empty", line: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsContinuation(tc.line))
		})
	}
}
