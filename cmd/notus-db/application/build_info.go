package application

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/anchore/notus-db/pkg/metadata"
	"github.com/anchore/notus-db/pkg/store/sqlite"
)

const valueNotProvided = "[not provided]"

// set via ldflags at release time
var (
	version        = valueNotProvided
	gitCommit      = valueNotProvided
	gitDescription = valueNotProvided
	buildDate      = valueNotProvided
)

type BuildInfo struct {
	Version             string `json:"version"`
	GitCommit           string `json:"gitCommit"`
	GitDescription      string `json:"gitDescription"` // "clean" or "dirty"
	BuildDate           string `json:"buildDate"`
	GoVersion           string `json:"goVersion"`
	Compiler            string `json:"compiler"`
	Platform            string `json:"platform"`
	MetadataDir         string `json:"metadataDir"`
	KnowledgeBaseSchema int    `json:"knowledgeBaseSchema"`
}

// vcsStamp is what the go toolchain embeds about the working tree when no ldflags were given.
type vcsStamp struct {
	revision string
	modified *bool
}

func readVCSStamp(settings []debug.BuildSetting) vcsStamp {
	var stamp vcsStamp
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			stamp.revision = s.Value
		case "vcs.modified":
			dirty := s.Value == "true"
			stamp.modified = &dirty
		}
	}
	return stamp
}

// fillFromVCS backfills any linker value that was not provided from the embedded vcs stamp.
func (b BuildInfo) fillFromVCS(stamp vcsStamp) BuildInfo {
	if b.Version == valueNotProvided {
		b.Version = valueNotProvided + " (adhoc-build)"
		if stamp.revision != "" {
			b.Version = stamp.revision + "-adhoc-build"
		}
	}

	if b.GitCommit == valueNotProvided && stamp.revision != "" {
		b.GitCommit = stamp.revision
	}

	if b.GitDescription == valueNotProvided && stamp.modified != nil {
		b.GitDescription = "clean"
		if *stamp.modified {
			b.GitDescription = "dirty"
		}
	}
	return b
}

func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:             version,
		GitCommit:           gitCommit,
		GitDescription:      gitDescription,
		BuildDate:           buildDate,
		GoVersion:           runtime.Version(),
		Compiler:            runtime.Compiler,
		Platform:            fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		MetadataDir:         metadata.DirectoryName,
		KnowledgeBaseSchema: sqlite.SchemaVersion,
	}

	var stamp vcsStamp
	if bi, ok := debug.ReadBuildInfo(); ok {
		stamp = readVCSStamp(bi.Settings)
	}
	return info.fillFromVCS(stamp)
}
