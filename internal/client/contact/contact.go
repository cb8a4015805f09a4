package contact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"
	"asteca_portfolio/internal/transport/http/dto"
)

const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldSubject     = "subject"
	FieldMessage     = "message"
	FieldProjectType = "project_type"
)

const MsgSent = "Thank you! Your message has been sent."

type Sender interface {
	SendContact(ctx context.Context, req dto.ContactRequest) (models.ContactMessage, error)
}

type Snapshot struct {
	Fields  dto.ContactRequest
	Sending bool
	Status  string
	Error   string
}

// Form состояние формы обратной связи
type Form struct {
	mu      sync.Mutex
	log     *slog.Logger
	api     Sender
	fields  dto.ContactRequest
	sending bool
	status  string
	err     string
	gen     uint64
}

func New(log *slog.Logger, sender Sender) *Form {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Form{
		log: log,
		api: sender,
	}
}

func (f *Form) Mount(context.Context) error {
	f.mu.Lock()
	f.status = ""
	f.err = ""
	f.mu.Unlock()
	return nil
}

func (f *Form) Unmount() {
	f.mu.Lock()
	f.gen++
	f.sending = false
	f.mu.Unlock()
}

func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldName:
		f.fields.Name = value
	case FieldEmail:
		f.fields.Email = value
	case FieldPhone:
		f.fields.Phone = value
	case FieldSubject:
		f.fields.Subject = value
	case FieldMessage:
		f.fields.Message = value
	case FieldProjectType:
		f.fields.ProjectType = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

func validate(req dto.ContactRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, FieldName)
	}
	if email := strings.TrimSpace(req.Email); email == "" || !strings.Contains(email, "@") {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(req.Message) == "" {
		missing = append(missing, FieldMessage)
	}

	if len(missing) > 0 {
		return &api.ValidationError{Fields: missing}
	}
	return nil
}

// Submit отправляет сообщение; при успехе форма очищается, при ошибке поля сохраняются
func (f *Form) Submit(ctx context.Context) error {
	const op = "contact.Form.Submit"

	f.mu.Lock()
	if f.sending {
		f.mu.Unlock()
		return nil
	}
	req := f.fields
	if err := validate(req); err != nil {
		f.err = api.Message(err)
		f.status = ""
		f.mu.Unlock()
		return err
	}
	f.sending = true
	f.err = ""
	f.status = ""
	gen := f.gen
	f.mu.Unlock()

	_, err := f.api.SendContact(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gen != gen {
		return nil
	}
	f.sending = false

	if err != nil {
		f.log.Warn("failed to send contact message", slog.String("op", op), sl.Err(err))
		f.err = api.Message(err)
		return fmt.Errorf("%s: %w", op, err)
	}

	f.fields = dto.ContactRequest{}
	f.status = MsgSent

	return nil
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		Fields:  f.fields,
		Sending: f.sending,
		Status:  f.status,
		Error:   f.err,
	}
}
