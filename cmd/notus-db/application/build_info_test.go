package application

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfo_FillFromVCS(t *testing.T) {
	unset := BuildInfo{
		Version:        valueNotProvided,
		GitCommit:      valueNotProvided,
		GitDescription: valueNotProvided,
	}

	tests := []struct {
		name     string
		info     BuildInfo
		settings []debug.BuildSetting
		want     BuildInfo
	}{
		{
			name: "no stamp",
			info: unset,
			want: BuildInfo{
				Version:        "[not provided] (adhoc-build)",
				GitCommit:      valueNotProvided,
				GitDescription: valueNotProvided,
			},
		},
		{
			name: "dirty tree",
			info: unset,
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: BuildInfo{
				Version:        "abc123-adhoc-build",
				GitCommit:      "abc123",
				GitDescription: "dirty",
			},
		},
		{
			name: "clean tree",
			info: unset,
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "false"},
			},
			want: BuildInfo{
				Version:        "abc123-adhoc-build",
				GitCommit:      "abc123",
				GitDescription: "clean",
			},
		},
		{
			name: "linker values win",
			info: BuildInfo{Version: "v0.3.0", GitCommit: "def456", GitDescription: "clean"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: BuildInfo{Version: "v0.3.0", GitCommit: "def456", GitDescription: "clean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.fillFromVCS(readVCSStamp(tt.settings)))
		})
	}
}

func TestReadBuildInfo(t *testing.T) {
	info := ReadBuildInfo()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, "notus_metadata", info.MetadataDir)
	assert.Equal(t, 1, info.KnowledgeBaseSchema)
}
