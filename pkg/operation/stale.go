package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/xmlpoke/pkg/config"
	"github.com/walteh/xmlpoke/pkg/planner"
	"gitlab.com/tozd/go/errors"
)

// 🔍 CheckStale reports whether the intermediate tree needs regenerating:
// the root is missing, a primary's mirror is missing, or a primary source
// is newer than its mirror.
func CheckStale(ctx context.Context, cfg *config.Config) (bool, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(cfg.Intermediate); os.IsNotExist(err) {
		logger.Debug().Str("dir", cfg.Intermediate).Msg("output root missing")
		return true, nil
	} else if err != nil {
		return false, errors.Errorf("checking output root: %w", err)
	}

	for _, in := range cfg.Inputs {
		dest, err := planner.Plan(cfg.Intermediate, in.Path)
		if err != nil {
			return false, errors.Errorf("planning destination for %s: %w", in.Path, err)
		}

		destInfo, err := os.Stat(dest)
		if os.IsNotExist(err) {
			logger.Debug().Str("file", dest).Msg("mirror missing")
			return true, nil
		} else if err != nil {
			return false, errors.Errorf("checking mirror %s: %w", dest, err)
		}

		srcInfo, err := os.Stat(in.Path)
		if err != nil {
			return false, errors.Errorf("checking source %s: %w", in.Path, err)
		}

		if srcInfo.ModTime().After(destInfo.ModTime()) {
			logger.Debug().Str("file", in.Path).Msg("source newer than mirror")
			return true, nil
		}
	}

	logger.Debug().Msg("intermediate tree is up to date")
	return false, nil
}
