package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores predefinidas para uso consistente
var (
	BoldRed      = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayIncreaseBars exibe o aumento de custo de cada recurso como barras
// proporcionais ao maior aumento.
func (c *Console) DisplayIncreaseBars(title string, bars []types.Bar) {
	fmt.Println("\n" + RenderIncreaseBars(title, bars))
}

// RenderIncreaseBars monta o painel exibido por DisplayIncreaseBars.
func RenderIncreaseBars(title string, bars []types.Bar) string {
	maxValue := 0.0
	for _, b := range bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}
	if maxValue == 0 {
		return pterm.Warning.Sprint("No cost increase to display")
	}

	tableData := pterm.TableData{{"Resource", "Increase", ""}}
	for _, b := range bars {
		barLength := int((b.Value / maxValue) * 40)
		if barLength < 1 && b.Value > 0 {
			barLength = 1
		}
		tableData = append(tableData, []string{
			b.Label,
			fmt.Sprintf("$%.2f", b.Value),
			pterm.FgRed.Sprint(strings.Repeat("█", barLength)),
		})
	}

	renderedTable, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	return pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
}
