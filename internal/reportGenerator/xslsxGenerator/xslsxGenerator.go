package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/finfusion/internal/model"
	"github.com/KotFed0t/finfusion/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	portfolioSheet = "Portfolio"
	walletSheet    = "Wallet"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var portfolioHeader = []string{"Symbol", "Name", "Quantity", "Price per share", "Total value", "Sentiment", "Last refreshed"}

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, statement model.Statement) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("holdings", len(statement.Holdings)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("create header style: %w", err)
	}

	if err := fillPortfolio(f, statement, headerStyle); err != nil {
		slog.Error("got error while filling portfolio sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := fillWallet(f, statement, headerStyle); err != nil {
		slog.Error("got error while filling wallet sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func fillPortfolio(f *excelize.File, statement model.Statement, headerStyle int) error {
	if _, err := f.NewSheet(portfolioSheet); err != nil {
		return err
	}

	for i, title := range portfolioHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellStr(portfolioSheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(portfolioHeader), 1)
	if err := f.SetCellStyle(portfolioSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	total := decimal.Zero
	for i, h := range statement.Holdings {
		row := i + 2
		_ = f.SetCellStr(portfolioSheet, fmt.Sprintf("A%d", row), h.Symbol)
		_ = f.SetCellStr(portfolioSheet, fmt.Sprintf("B%d", row), h.Name)
		_ = f.SetCellInt(portfolioSheet, fmt.Sprintf("C%d", row), int64(h.Quantity))
		_ = f.SetCellValue(portfolioSheet, fmt.Sprintf("D%d", row), h.PricePerShare.InexactFloat64())
		_ = f.SetCellValue(portfolioSheet, fmt.Sprintf("E%d", row), h.TotalValue.InexactFloat64())
		_ = f.SetCellStr(portfolioSheet, fmt.Sprintf("F%d", row), h.Sentiment)
		_ = f.SetCellStr(portfolioSheet, fmt.Sprintf("G%d", row), h.LastRefreshed)
		total = total.Add(h.TotalValue)
	}

	totalRow := len(statement.Holdings) + 2
	_ = f.SetCellStr(portfolioSheet, fmt.Sprintf("A%d", totalRow), "Total")
	_ = f.SetCellValue(portfolioSheet, fmt.Sprintf("E%d", totalRow), total.InexactFloat64())
	if err := f.SetCellStyle(portfolioSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("E%d", totalRow), headerStyle); err != nil {
		return fmt.Errorf("apply total style: %w", err)
	}

	return f.SetColWidth(portfolioSheet, "A", "G", 18)
}

func fillWallet(f *excelize.File, statement model.Statement, headerStyle int) error {
	if _, err := f.NewSheet(walletSheet); err != nil {
		return err
	}

	rows := [][2]any{
		{"Account", statement.AccountID},
		{"Name", statement.DisplayName},
		{"Currency", statement.Currency},
		{"Confirmed balance", statement.Balance.InexactFloat64()},
		{"Generated at", statement.GeneratedAt.Format(dateTimeLayout)},
	}
	for i, row := range rows {
		_ = f.SetCellValue(walletSheet, fmt.Sprintf("A%d", i+1), row[0])
		_ = f.SetCellValue(walletSheet, fmt.Sprintf("B%d", i+1), row[1])
	}

	if err := f.SetCellStyle(walletSheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("apply wallet style: %w", err)
	}

	return f.SetColWidth(walletSheet, "A", "B", 22)
}
