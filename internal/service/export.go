package service

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"debt-service/internal/models"
)

// BuildScheduleXML renders a debt and its schedule as an XML document
func BuildScheduleXML(debt *models.Debt, schedule *models.ScheduleResponse, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("PaymentSchedule")
	root.CreateAttr("debtId", debt.ID)
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))

	info := root.CreateElement("Debt")
	info.CreateElement("Name").SetText(debt.Name)
	info.CreateElement("Category").SetText(string(debt.Category))
	info.CreateElement("RemainingAmount").SetText(models.FormatMoney(debt.RemainingAmount))
	info.CreateElement("MonthlyPayment").SetText(models.FormatMoney(debt.MonthlyPayment))
	info.CreateElement("InterestRate").SetText(strconv.FormatFloat(debt.InterestRate, 'f', -1, 64))
	info.CreateElement("RemainingMonths").SetText(strconv.Itoa(debt.RemainingMonths))

	entries := root.CreateElement("Entries")
	for _, entry := range schedule.Entries {
		e := entries.CreateElement("Entry")
		e.CreateAttr("month", strconv.Itoa(entry.Month))
		e.CreateElement("Payment").SetText(models.FormatMoney(entry.Payment))
		e.CreateElement("Interest").SetText(models.FormatMoney(entry.MonthlyInterest))
		e.CreateElement("Principal").SetText(models.FormatMoney(entry.Principal))
		e.CreateElement("Balance").SetText(models.FormatMoney(entry.Balance))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Months").SetText(strconv.Itoa(schedule.Totals.Months))
	totals.CreateElement("TotalPrincipal").SetText(models.FormatMoney(schedule.Totals.TotalPrincipal))
	totals.CreateElement("TotalInterest").SetText(models.FormatMoney(schedule.Totals.TotalInterest))
	totals.CreateElement("TotalPaid").SetText(models.FormatMoney(schedule.Totals.TotalPaid))
	totals.CreateElement("FinalBalance").SetText(models.FormatMoney(schedule.Totals.FinalBalance))
	totals.CreateElement("PaidOff").SetText(strconv.FormatBool(schedule.Totals.PaidOff))
	totals.CreateElement("Amortizing").SetText(strconv.FormatBool(schedule.Amortizing))

	doc.Indent(2)
	return doc.WriteToBytes()
}
