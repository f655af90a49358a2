package opts

import (
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/userlog"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	UserLogger *userlog.UserLogger
}
