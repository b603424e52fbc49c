package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iccthub/portal-api/internal/models"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
	"github.com/iccthub/portal-api/pkg/export"
)

// Report kinds accepted by Generate.
const (
	ReportUsers      = "users"
	ReportEvents     = "events"
	ReportLostItems  = "lost-items"
	ReportFoundItems = "found-items"
)

// Report formats accepted by Generate.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

const reportDateLayout = "2006-01-02"

type userHistorySource interface {
	History(ctx context.Context) ([]models.User, error)
}

type eventHistorySource interface {
	History(ctx context.Context) ([]models.Event, error)
}

type lostItemHistorySource interface {
	History(ctx context.Context) ([]models.LostItem, error)
}

type foundItemHistorySource interface {
	History(ctx context.Context) ([]models.FoundItem, error)
}

// Report is a rendered export ready to be served as a download.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders admin exports over the full history of each
// resource, archived records included.
type ReportService struct {
	users  userHistorySource
	events eventHistorySource
	lost   lostItemHistorySource
	found  foundItemHistorySource
	pdf    *export.PDFExporter
	csv    *export.CSVExporter
	logger *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(users userHistorySource, events eventHistorySource, lost lostItemHistorySource, found foundItemHistorySource, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		users:  users,
		events: events,
		lost:   lost,
		found:  found,
		pdf:    export.NewPDFExporter(),
		csv:    export.NewCSVExporter(),
		logger: logger,
	}
}

// Generate builds the requested report in the requested format.
func (s *ReportService) Generate(ctx context.Context, kind, format string) (*Report, error) {
	var (
		data  export.Dataset
		title string
		err   error
	)

	switch kind {
	case ReportUsers:
		data, err = s.userDataset(ctx)
		title = "User Accounts Report"
	case ReportEvents:
		data, err = s.eventDataset(ctx)
		title = "Events Report"
	case ReportLostItems:
		data, err = s.lostItemDataset(ctx)
		title = "Lost Items Report"
	case ReportFoundItems:
		data, err = s.foundItemDataset(ctx)
		title = "Found Items Report"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report kind")
	}
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format(reportDateLayout)
	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF report")
		}
		return &Report{
			FileName:    kind + "-report-" + stamp + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	case FormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV report")
		}
		return &Report{
			FileName:    kind + "-report-" + stamp + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report format")
	}
}

func (s *ReportService) userDataset(ctx context.Context) (export.Dataset, error) {
	users, err := s.users.History(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"Name", "Student ID", "Email", "Role", "Course", "Year Level", "Section", "Archived", "Created"},
	}
	for _, u := range users {
		data.Rows = append(data.Rows, []string{
			u.Name, u.StudentID, u.Email, string(u.Role), u.Course, u.YearLevel, u.Section,
			strconv.FormatBool(u.IsArchived), u.CreatedAt.Format(reportDateLayout),
		})
	}
	return data, nil
}

func (s *ReportService) eventDataset(ctx context.Context) (export.Dataset, error) {
	events, err := s.events.History(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"Title", "Status", "Audience", "Event Date", "Location", "Archived", "Created"},
	}
	for _, e := range events {
		data.Rows = append(data.Rows, []string{
			e.Title, string(e.Status), string(e.TargetAudience), e.EventDate.Format(reportDateLayout),
			e.Location, strconv.FormatBool(e.IsArchived), e.CreatedAt.Format(reportDateLayout),
		})
	}
	return data, nil
}

func (s *ReportService) lostItemDataset(ctx context.Context) (export.Dataset, error) {
	items, err := s.lost.History(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"Description", "Category", "Status", "Date Lost", "Location", "Owner", "Contact", "Archived", "Created"},
	}
	for _, item := range items {
		data.Rows = append(data.Rows, []string{
			item.Description, item.Category, item.Status, item.DateLost.Format(reportDateLayout),
			item.LocationLost, item.OwnerName, item.OwnerContact,
			strconv.FormatBool(item.IsArchived), item.CreatedAt.Format(reportDateLayout),
		})
	}
	return data, nil
}

func (s *ReportService) foundItemDataset(ctx context.Context) (export.Dataset, error) {
	items, err := s.found.History(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	data := export.Dataset{
		Headers: []string{"Description", "Category", "Status", "Date Found", "Location", "Finder", "Contact", "Archived", "Created"},
	}
	for _, item := range items {
		data.Rows = append(data.Rows, []string{
			item.Description, item.Category, item.Status, item.DateFound.Format(reportDateLayout),
			item.LocationFound, item.FinderName, item.FinderContact,
			strconv.FormatBool(item.IsArchived), item.CreatedAt.Format(reportDateLayout),
		})
	}
	return data, nil
}
