package cli

import (
	"fmt"

	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(formattedVersion string) {
	banner := `
   ____    _    ____  ____  ___
  / ___|  / \  |  _ \|  _ \|_ _|
 | |     / _ \ | | | | |_) || |
 | |___ / ___ \| |_| |  _ < | |
  \____/_/   \_\____/|_| \_\___|
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("AWS Anomaly RCA CLI (v%s)", formattedVersion)))
}
