package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/schema"
)

// Notice targets name the control a message is shown next to.
const (
	TargetStore     = "store"
	TargetSelection = "selection"
	TargetDocument  = "document"
)

func storeUnavailableNotice() model.Notice {
	return model.Notice{
		Code:    model.NoticeStoreUnavailable,
		Target:  TargetStore,
		Message: "Não foi possível acessar o banco de questões. Exibindo um banco vazio.",
	}
}

func schemaMismatchNotice(e *schema.MismatchError) model.Notice {
	missing := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		missing[i] = string(f)
	}
	return model.Notice{
		Code:    model.NoticeSchemaMismatch,
		Target:  TargetStore,
		Message: fmt.Sprintf("A planilha não possui as colunas obrigatórias: %s.", strings.Join(missing, ", ")),
		Details: []string{"colunas encontradas: " + strings.Join(e.Detected, ", ")},
	}
}

func readReportNotices(r *repository.ReadReport) []model.Notice {
	if r == nil {
		return nil
	}
	var notices []model.Notice
	if len(r.Skipped) > 0 {
		details := make([]string, len(r.Skipped))
		for i, s := range r.Skipped {
			details[i] = fmt.Sprintf("linha %d: %s", s.Row, s.Reason)
		}
		notices = append(notices, model.Notice{
			Code:    model.NoticeSkippedRow,
			Target:  TargetStore,
			Message: fmt.Sprintf("%d linha(s) da planilha foram ignoradas.", len(r.Skipped)),
			Details: details,
		})
	}
	if len(r.UnknownDifficulty) > 0 {
		notices = append(notices, model.Notice{
			Code:    model.NoticeUnknownDifficulty,
			Target:  TargetStore,
			Message: "Algumas dificuldades não foram reconhecidas e ficaram sem classificação.",
			Details: r.UnknownDifficulty,
		})
	}
	if r.Mapping != nil && len(r.Mapping.Duplicates) > 0 {
		notices = append(notices, model.Notice{
			Code:    model.NoticeDuplicateColumn,
			Target:  TargetStore,
			Message: "Colunas duplicadas foram ignoradas.",
			Details: r.Mapping.Duplicates,
		})
	}
	return notices
}

func unknownIDsNotice(missing []int) model.Notice {
	details := make([]string, len(missing))
	for i, id := range missing {
		details[i] = strconv.Itoa(id)
	}
	return model.Notice{
		Code:    model.NoticeUnknownQuestionID,
		Target:  TargetSelection,
		Message: fmt.Sprintf("%d questão(ões) selecionada(s) não encontrada(s) foram ignoradas.", len(missing)),
		Details: details,
	}
}

func selectionFormatNotice(e *bank.SelectionFormatError) model.Notice {
	return model.Notice{
		Code:    model.NoticeInvalidSelectionFormat,
		Target:  TargetSelection,
		Message: fmt.Sprintf("Valor inválido %q na posição %d. A seleção anterior foi mantida.", e.Token, e.Position),
	}
}
