package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyayalens/nyayalens/internal/core/domain"
	"github.com/nyayalens/nyayalens/internal/core/ports"
	"github.com/nyayalens/nyayalens/internal/core/prompt"
)

const defaultChatLanguage = "en"

// ChatUseCase answers a follow-up question about an analyzed document. The
// caller supplies the full prior history on every request; the server holds
// no session state. The history is replayed to the model unchanged, with
// the new question (plus document context) appended as the newest user
// turn. Unbounded history growth is a known, unaddressed scaling concern.
type ChatUseCase struct {
	model    ports.ChatModel
	observer ports.PipelineObserver
}

func NewChatUseCase(model ports.ChatModel, observer ports.PipelineObserver) *ChatUseCase {
	return &ChatUseCase{model: model, observer: observer}
}

func (uc *ChatUseCase) Continue(
	ctx context.Context,
	history []domain.ConversationTurn,
	question, documentText, language string,
) (*domain.ConversationTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "continue chat", errors.New("question is required"))
	}
	if language == "" {
		language = defaultChatLanguage
	}

	for i, turn := range history {
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleModel {
			return nil, domain.WrapError(domain.ErrInvalidInput, "continue chat",
				fmt.Errorf("history[%d] has role %q", i, turn.Role))
		}
	}

	newTurn, err := prompt.BuildChatTurn(question, documentText, language)
	if err != nil {
		return nil, err
	}

	turns := make([]domain.ConversationTurn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, domain.ConversationTurn{Role: domain.RoleUser, Text: newTurn})

	if uc.observer != nil {
		uc.observer.RecordChatHistory(len(history))
	}

	start := time.Now()
	reply, err := uc.model.Chat(ctx, turns)
	if uc.observer != nil {
		uc.observer.ObserveStage("chat", time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	return &domain.ConversationTurn{Role: domain.RoleModel, Text: reply}, nil
}
