package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle
	CreateTable() TableInterface
	DisplayIncreaseBars(title string, bars []Bar)
}

// Bar é um item rotulado de um gráfico de barras horizontal.
type Bar struct {
	Label string
	Value float64
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}
