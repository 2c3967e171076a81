package version

import (
	"fmt"

	"github.com/contentgrid/dctm-connector/internal/cmd/base"
	buildversion "github.com/contentgrid/dctm-connector/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: dctm-connector version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("dctm-connector %s", buildversion.Version))
	return 0
}
