package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"taskdeck"},
			want: []string{"taskdeck"},
		},
		{
			name: "direct task id first token",
			in:   []string{"taskdeck", "task-k3f9"},
			want: []string{"taskdeck", "tasks", "show", "task-k3f9"},
		},
		{
			name: "direct project id",
			in:   []string{"taskdeck", "proj-abcd1234"},
			want: []string{"taskdeck", "projects", "show", "proj-abcd1234"},
		},
		{
			name: "direct task id after value flag",
			in:   []string{"taskdeck", "--dir", "./tmp-test-data", "task-k3f9"},
			want: []string{"taskdeck", "--dir", "./tmp-test-data", "tasks", "show", "task-k3f9"},
		},
		{
			name: "direct task id after equals flag",
			in:   []string{"taskdeck", "--format=yaml", "task-k3f9"},
			want: []string{"taskdeck", "--format=yaml", "tasks", "show", "task-k3f9"},
		},
		{
			name: "direct task id after bool flag",
			in:   []string{"taskdeck", "--pretty", "task-k3f9"},
			want: []string{"taskdeck", "--pretty", "tasks", "show", "task-k3f9"},
		},
		{
			name: "direct task id after double dash",
			in:   []string{"taskdeck", "--dir", "./tmp-test-data", "--", "task-k3f9"},
			want: []string{"taskdeck", "--dir", "./tmp-test-data", "--", "tasks", "show", "task-k3f9"},
		},
		{
			name: "bare prefix not rewritten",
			in:   []string{"taskdeck", "task-"},
			want: []string{"taskdeck", "task-"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"taskdeck", "tasks", "show", "task-k3f9"},
			want: []string{"taskdeck", "tasks", "show", "task-k3f9"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"taskdeck", "wat"},
			want: []string{"taskdeck", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
