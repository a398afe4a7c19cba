package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/document"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

func TestNext_TransicionesPermitidas(t *testing.T) {
	tests := []struct {
		from entity.DocumentStatus
		tr   document.Transition
		want entity.DocumentStatus
	}{
		{entity.StatusDraft, document.TransitionConfirm, entity.StatusConfirmed},
		{entity.StatusDraft, document.TransitionCancel, entity.StatusCancelled},
		{entity.StatusConfirmed, document.TransitionFulfill, entity.StatusFulfilled},
		{entity.StatusConfirmed, document.TransitionCancel, entity.StatusCancelled},
	}
	for _, tt := range tests {
		got, err := document.Next(tt.from, tt.tr)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNext_EstadosTerminalesRechazan(t *testing.T) {
	for _, from := range []entity.DocumentStatus{entity.StatusFulfilled, entity.StatusCancelled} {
		assert.True(t, document.Terminal(from))
		for _, tr := range []document.Transition{document.TransitionConfirm, document.TransitionFulfill, document.TransitionCancel} {
			_, err := document.Next(from, tr)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s desde %s", tr, from)
		}
	}

	_, err := document.Next(entity.StatusDraft, document.TransitionFulfill)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un borrador no se despacha sin confirmar")
}

func TestTraitsOf_DevolucionSegunTipo(t *testing.T) {
	saleReturn := document.TraitsOf(&entity.Document{Type: entity.DocumentReturn, ReturnKind: entity.ReturnSale})
	assert.Equal(t, document.Inbound, saleReturn.Direction)
	assert.Equal(t, entity.ReasonReturnIn, saleReturn.Reason)
	assert.Equal(t, entity.AccountReceivable, saleReturn.Account)

	purchaseReturn := document.TraitsOf(&entity.Document{Type: entity.DocumentReturn, ReturnKind: entity.ReturnPurchase})
	assert.Equal(t, document.Outbound, purchaseReturn.Direction)
	assert.Equal(t, entity.ReasonReturnOut, purchaseReturn.Reason)
	assert.Equal(t, entity.AccountPayable, purchaseReturn.Account)

	transfer := document.TraitsOf(&entity.Document{Type: entity.DocumentTransfer})
	assert.Equal(t, document.Both, transfer.Direction)
	assert.Zero(t, transfer.Account)
}
