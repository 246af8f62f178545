package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
	"github.com/noah-isme/sma-attendance-monitor/pkg/export"
)

var monitorColumns = []export.Column{
	{Key: "date", Title: "Date", Width: 1.1},
	{Key: "weekday", Title: "Jour", Width: 1},
	{Key: "period", Title: "Créneau", Width: 1.4},
	{Key: "class", Title: "Classe", Width: 1},
	{Key: "subject", Title: "Discipline", Width: 1.6},
	{Key: "teacher", Title: "Enseignant", Width: 1.8},
	{Key: "status", Title: "Statut", Width: 1.1},
	{Key: "late", Title: "Retard (min)", Width: 0.9},
	{Key: "origin", Title: "Ouvert depuis", Width: 1.3},
}

var statusLabels = map[models.MonitorStatus]string{
	models.StatusMissing: "Appel manquant",
	models.StatusLate:    "En retard",
	models.StatusOK:      "Conforme",
}

var originLabels = map[models.SessionOrigin]string{
	models.OriginTeacher:     "Enseignant",
	models.OriginClassDevice: "Appareil de classe",
}

func monitorDataset(rows []models.MonitorRow, from, to time.Time) export.Dataset {
	data := export.Dataset{
		Title:   fmt.Sprintf("Suivi des appels du %s au %s", from.Format("02/01/2006"), to.Format("02/01/2006")),
		Columns: monitorColumns,
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		record := map[string]string{
			"date":    row.Date,
			"weekday": derefString(row.WeekdayLabel),
			"period":  derefString(row.PeriodLabel),
			"class":   derefString(row.ClassLabel),
			"subject": derefString(row.SubjectName),
			"teacher": row.TeacherName,
			"status":  statusLabels[row.Status],
		}
		if row.LateMinutes != nil {
			record["late"] = strconv.Itoa(*row.LateMinutes)
		}
		if row.OpenedFrom != nil {
			record["origin"] = originLabels[*row.OpenedFrom]
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}
