package main

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/crumbbar/pkg/config"
	"github.com/vanderheijden86/crumbbar/pkg/export"
	"github.com/vanderheijden86/crumbbar/pkg/version"
)

// robotFitWorkers bounds how many sources are loaded and fitted at once.
const robotFitWorkers = 8

// fitRequest is the trail to fit in every source of a --robot-fit run.
type fitRequest struct {
	Select string
	Root   string
	Width  int
	Config config.Config
}

// fitSources fits the requested trail in each source concurrently. A source
// that fails to load or resolve is reported in its own entry and does not
// stop the others. Entries keep the order of sources.
func fitSources(sources []string, req fitRequest) export.RobotOutput {
	results := make([]export.RobotFit, len(sources))

	var g errgroup.Group
	g.SetLimit(robotFitWorkers)

	// Failures land in the entry, never in the group.
	for i, source := range sources {
		g.Go(func() error {
			results[i] = fitSource(source, req)
			return nil
		})
	}
	g.Wait()

	return export.RobotOutput{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     version.Version,
		Trails:      results,
	}
}

func fitSource(source string, req fitRequest) export.RobotFit {
	selected, root, err := openTarget(source, req.Select, req.Root)
	if err != nil {
		return export.RobotFit{
			Source:  source,
			Width:   req.Width,
			Padding: req.Config.UI.Padding,
			Error:   err.Error(),
		}
	}
	t, res, measured := fitTrail(selected, root, req.Width, req.Config)
	return export.NewRobotFit(source, t, req.Width, req.Config.UI.Padding, measured, res, req.Config.UI.CompactWidth)
}
