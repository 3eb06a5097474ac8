package comixd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comixd/comixd"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "empty path means root",
			raw:  "",
			want: "",
		},
		{
			name: "dot means root",
			raw:  ".",
			want: "",
		},
		{
			name: "plain relative path",
			raw:  "One Piece/Volume 1.cbz",
			want: "One Piece/Volume 1.cbz",
		},
		{
			name: "redundant segments collapse",
			raw:  "a/./b//c",
			want: "a/b/c",
		},
		{
			name: "interior dotdot resolves",
			raw:  "a/b/../c",
			want: "a/c",
		},
		{
			name: "trailing slash trims",
			raw:  "series/",
			want: "series",
		},
		{
			name: "surrounding whitespace trims",
			raw:  "  series  ",
			want: "series",
		},
		{
			name:    "absolute path rejected",
			raw:     "/etc/passwd",
			wantErr: true,
		},
		{
			name:    "escape via dotdot rejected",
			raw:     "../secrets",
			wantErr: true,
		},
		{
			name:    "escape after normalization rejected",
			raw:     "a/../../secrets",
			wantErr: true,
		},
		{
			name:    "bare dotdot rejected",
			raw:     "..",
			wantErr: true,
		},
		{
			name:    "NUL byte rejected",
			raw:     "a\x00b",
			wantErr: true,
		},
		{
			name:    "backslash rejected",
			raw:     `a\b`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := comixd.CleanPath(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, comixd.ErrInvalidPath)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
