package pkg

import (
	"github.com/anchore/go-logger"
	"github.com/anchore/notus-db/internal/log"
)

// SetLogger routes the library's logging (metadata loading, rejections, checksum bypass warnings) to l.
func SetLogger(l logger.Logger) {
	log.Set(l)
}
