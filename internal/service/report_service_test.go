package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
)

type stubHistories struct{}

func (stubHistories) History(ctx context.Context) ([]models.User, error) {
	return []models.User{
		{Name: "Juan Dela Cruz", StudentID: "2021-00001", Email: "juan@icct.edu.ph", Role: models.RoleStudent, CreatedAt: time.Now()},
		{Name: "Old Account", StudentID: "2019-00042", Email: "old@icct.edu.ph", Role: models.RoleStudent, IsArchived: true, CreatedAt: time.Now()},
	}, nil
}

type stubEventHistory struct{}

func (stubEventHistory) History(ctx context.Context) ([]models.Event, error) {
	return []models.Event{{Title: "Orientation", Status: models.EventFinished, TargetAudience: models.AudienceAll, EventDate: time.Now(), CreatedAt: time.Now()}}, nil
}

type stubLostHistory struct{}

func (stubLostHistory) History(ctx context.Context) ([]models.LostItem, error) {
	return []models.LostItem{{Description: "Umbrella", Category: "Other", Status: models.LostStatusLost, DateLost: time.Now(), CreatedAt: time.Now()}}, nil
}

type stubFoundHistory struct{}

func (stubFoundHistory) History(ctx context.Context) ([]models.FoundItem, error) {
	return []models.FoundItem{{Description: "ID card", Category: "ID", Status: models.FoundStatusFound, DateFound: time.Now(), CreatedAt: time.Now()}}, nil
}

func newReportService() *ReportService {
	return NewReportService(stubHistories{}, stubEventHistory{}, stubLostHistory{}, stubFoundHistory{}, nil)
}

func TestReportServiceGenerateCSVIncludesArchivedRows(t *testing.T) {
	svc := newReportService()

	report, err := svc.Generate(context.Background(), ReportUsers, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.True(t, strings.HasSuffix(report.FileName, ".csv"))

	content := string(report.Content)
	assert.Contains(t, content, "Old Account")
	assert.Contains(t, content, "true")
}

func TestReportServiceGeneratePDF(t *testing.T) {
	svc := newReportService()

	for _, kind := range []string{ReportUsers, ReportEvents, ReportLostItems, ReportFoundItems} {
		report, err := svc.Generate(context.Background(), kind, FormatPDF)
		require.NoError(t, err, kind)
		assert.Equal(t, "application/pdf", report.ContentType)
		assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"), kind)
	}
}

func TestReportServiceGenerateUnknownKind(t *testing.T) {
	svc := newReportService()

	_, err := svc.Generate(context.Background(), "grades", FormatCSV)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceGenerateUnknownFormat(t *testing.T) {
	svc := newReportService()

	_, err := svc.Generate(context.Background(), ReportUsers, "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
