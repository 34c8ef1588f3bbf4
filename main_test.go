package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"fund-projection/domain"
	"fund-projection/report"
	"fund-projection/service"
)

func TestPrintProjection(t *testing.T) {
	result, err := service.Project(domain.SimulationParameters{
		InvestmentPeriodYears: 1, MonthlyDeposit: 100, VarianceTier: domain.VarianceLow,
	})
	require.NoError(t, err)
	money, err := report.NewMoneyFormatter("USD")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printProjection(&buf, money, result))

	out := buf.String()
	assert.Equal(t, 1+12+3, strings.Count(out, "\n"))
	assert.Contains(t, out, "$1,200.00")
	assert.Contains(t, out, "Average annual growth rate: 0.00%")
}

func TestShocksCommand(t *testing.T) {
	var buf bytes.Buffer
	app := &cli.App{
		Writer:   &buf,
		Commands: []*cli.Command{{Name: "shocks", Action: runShocks}},
	}
	require.NoError(t, app.Run([]string{"fundprojection", "shocks"}))

	out := buf.String()
	assert.Contains(t, out, "tariff")
	assert.Contains(t, out, "48-50")
	assert.Contains(t, out, "-20.00%")
}
