package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devcred/devcred-backend/internal/models"
	"github.com/devcred/devcred-backend/internal/repository"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/go-pdf/fpdf"
	"github.com/sashabaranov/go-openai"
)

// Resume generation errors
var (
	ErrResumeUnavailable = errors.New("resume generation is not configured")
	ErrResumeNoContent   = errors.New("model returned no content")
)

// resumeModels is tried in order; the first model that answers wins.
// Newer models occasionally reject requests during rollouts, so the
// older ones act as fallbacks.
var resumeModels = []string{
	openai.GPT4o,
	openai.GPT4oMini,
	openai.GPT3Dot5Turbo,
}

// ChatCompleter is the subset of the OpenAI client used by ResumeService
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ResumeService builds developer resumes from profile data using a
// language model and renders them to PDF.
type ResumeService struct {
	client        ChatCompleter
	users         repository.UserRepository
	contributions repository.ContributionRepository
	endorsements  repository.EndorsementRepository
	resumes       repository.ResumeRepository
	storage       storage.FileStorage
	logger        *slog.Logger
}

// NewResumeService creates a ResumeService. An empty API key leaves the
// service disabled; Generate then fails with ErrResumeUnavailable.
func NewResumeService(
	apiKey string,
	users repository.UserRepository,
	contributions repository.ContributionRepository,
	endorsements repository.EndorsementRepository,
	resumes repository.ResumeRepository,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
) *ResumeService {
	var client ChatCompleter
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &ResumeService{
		client:        client,
		users:         users,
		contributions: contributions,
		endorsements:  endorsements,
		resumes:       resumes,
		storage:       fileStorage,
		logger:        logger,
	}
}

// NewResumeServiceWithClient creates a ResumeService with a custom client
func NewResumeServiceWithClient(
	client ChatCompleter,
	users repository.UserRepository,
	contributions repository.ContributionRepository,
	endorsements repository.EndorsementRepository,
	resumes repository.ResumeRepository,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
) *ResumeService {
	return &ResumeService{
		client:        client,
		users:         users,
		contributions: contributions,
		endorsements:  endorsements,
		resumes:       resumes,
		storage:       fileStorage,
		logger:        logger,
	}
}

// Enabled reports whether an API key was configured
func (s *ResumeService) Enabled() bool {
	return s.client != nil
}

// Generate produces a resume for the user from their contributions and
// endorsements, stores the rendered PDF, and persists the entry.
func (s *ResumeService) Generate(ctx context.Context, userID uint) (*models.ResumeEntry, error) {
	if s.client == nil {
		return nil, ErrResumeUnavailable
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	contributions, _, err := s.contributions.ListByUser(ctx, userID, 100, 0)
	if err != nil {
		return nil, err
	}

	endorsements, err := s.endorsements.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := buildResumePrompt(user, contributions, endorsements)

	content, modelUsed, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	entry := &models.ResumeEntry{
		UserID:    userID,
		Content:   content,
		ModelUsed: modelUsed,
	}

	// PDF rendering is best effort; the text content is the record
	pdfPath, err := s.renderPDF(user.Username, content)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("resume PDF rendering failed",
				slog.Uint64("user_id", uint64(userID)),
				slog.Any("error", err))
		}
	} else {
		entry.PDFPath = pdfPath
	}

	if err := s.resumes.Create(ctx, entry); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("resume generated",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("model", modelUsed))
	}

	return entry, nil
}

// complete runs the chat completion, walking the model fallback chain
func (s *ResumeService) complete(ctx context.Context, prompt string) (string, string, error) {
	var lastErr error

	for _, model := range resumeModels {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "You are a professional technical resume writer. " +
						"Write a concise, well-structured developer resume in plain text. " +
						"Use short sections with clear headings. Do not invent facts.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.4,
		})
		if err != nil {
			lastErr = err
			if s.logger != nil {
				s.logger.Warn("resume model failed, trying next",
					slog.String("model", model),
					slog.Any("error", err))
			}
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = ErrResumeNoContent
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), model, nil
	}

	return "", "", fmt.Errorf("all resume models failed: %w", lastErr)
}

// buildResumePrompt assembles the model input from profile data
func buildResumePrompt(user *models.User, contributions []models.Contribution, endorsements []models.Endorsement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a developer resume for %s.\n", user.Username)
	if user.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", user.Bio)
	}
	if user.GitHubUsername != "" {
		fmt.Fprintf(&b, "GitHub: https://github.com/%s\n", user.GitHubUsername)
	}

	if len(contributions) > 0 {
		b.WriteString("\nContributions:\n")
		for _, c := range contributions {
			fmt.Fprintf(&b, "- [%s] %s", c.ContributionType, c.Title)
			if c.Description != "" {
				fmt.Fprintf(&b, ": %s", c.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(endorsements) > 0 {
		fmt.Fprintf(&b, "\nPeer endorsements (%d total):\n", len(endorsements))
		for _, e := range endorsements {
			if e.Message != "" {
				fmt.Fprintf(&b, "- %q\n", e.Message)
			}
		}
	}

	return b.String()
}

// renderPDF renders the resume text to a PDF and stores it
func (s *ResumeService) renderPDF(username, content string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, username, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(content, "\n") {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render PDF: %w", err)
	}

	path, err := s.storage.Save(fmt.Sprintf("%s-resume.pdf", username), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to store PDF: %w", err)
	}

	return path, nil
}
