package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/cloud-exit-assessment/pkg/version"
)

// displayWelcomeBanner prints the welcome banner with version information.
func displayWelcomeBanner(versionStr string) {
	banner := `
      _                 _                _ _
  ___| | ___  _   _  __| |   _____  ____(_) |_
 / __| |/ _ \| | | |/ _' |  / _ \ \/ /| | __|
| (__| | (_) | |_| | (_| | |  __/>  < | | |_
 \___|_|\___/ \__,_|\__,_|  \___/_/\_\|_|\__|
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("Cloud Exit Assessment CLI (v%s)", version.FormatVersion())))
}
