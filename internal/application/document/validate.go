package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/pkg/validator"
)

// ValidateFunc valida el cuerpo crudo de un tipo de documento y devuelve el borrador o la
// lista de errores de campo. Es pura: no consulta persistencia.
type ValidateFunc func(raw []byte) (*entity.Document, []domain.FieldError)

var validators = map[entity.DocumentType]ValidateFunc{
	entity.DocumentPurchase: ValidatePurchase,
	entity.DocumentSale:     ValidateSale,
	entity.DocumentReturn:   ValidateReturn,
	entity.DocumentTake:     ValidateTake,
	entity.DocumentTransfer: ValidateTransfer,
}

// Validate despacha según el tipo.
func Validate(docType entity.DocumentType, raw []byte) (*entity.Document, []domain.FieldError) {
	fn, ok := validators[docType]
	if !ok {
		return nil, []domain.FieldError{{Field: "type", Rule: "oneof", Message: fmt.Sprintf("tipo de documento desconocido %q", docType)}}
	}
	return fn(raw)
}

func decode(raw []byte, dst interface{}) []domain.FieldError {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		return []domain.FieldError{{Field: "body", Rule: "json", Message: "cuerpo JSON inválido: " + err.Error()}}
	}
	return validator.ValidateStruct(dst)
}

// ValidatePurchase orden de compra a un proveedor.
func ValidatePurchase(raw []byte) (*entity.Document, []domain.FieldError) {
	var in dto.CreatePurchaseRequest
	if fields := decode(raw, &in); len(fields) > 0 {
		return nil, fields
	}
	doc := &entity.Document{Type: entity.DocumentPurchase, CounterpartyID: in.SupplierID, WarehouseID: in.WarehouseID, Remark: in.Remark}
	for _, it := range in.Items {
		doc.Lines = append(doc.Lines, entity.DocumentLine{SKUID: it.SKUID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return doc, nil
}

// ValidateSale orden de venta a un cliente.
func ValidateSale(raw []byte) (*entity.Document, []domain.FieldError) {
	var in dto.CreateSaleRequest
	if fields := decode(raw, &in); len(fields) > 0 {
		return nil, fields
	}
	doc := &entity.Document{Type: entity.DocumentSale, CounterpartyID: in.CustomerID, WarehouseID: in.WarehouseID, Remark: in.Remark}
	for _, it := range in.Items {
		doc.Lines = append(doc.Lines, entity.DocumentLine{SKUID: it.SKUID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return doc, nil
}

// ValidateReturn devolución de venta (type 0) o de compra (type 1).
func ValidateReturn(raw []byte) (*entity.Document, []domain.FieldError) {
	var in dto.CreateReturnRequest
	if fields := decode(raw, &in); len(fields) > 0 {
		return nil, fields
	}
	doc := &entity.Document{
		Type:             entity.DocumentReturn,
		ReturnKind:       entity.ReturnKind(in.Type),
		CounterpartyID:   in.CounterpartyID,
		WarehouseID:      in.WarehouseID,
		SourceDocumentID: in.SourceDocumentID,
		Remark:           in.Remark,
	}
	for _, it := range in.Items {
		doc.Lines = append(doc.Lines, entity.DocumentLine{SKUID: it.SKUID, Quantity: it.ReturnQuantity, UnitPrice: it.Price})
	}
	return doc, nil
}

// ValidateTake toma física: una línea por SKU con la cantidad contada.
func ValidateTake(raw []byte) (*entity.Document, []domain.FieldError) {
	var in dto.CreateTakeRequest
	if fields := decode(raw, &in); len(fields) > 0 {
		return nil, fields
	}
	doc := &entity.Document{Type: entity.DocumentTake, WarehouseID: in.WarehouseID, Remark: in.Remark}
	for _, it := range in.Items {
		doc.Lines = append(doc.Lines, entity.DocumentLine{SKUID: it.SKUID, Quantity: it.CountedQuantity})
	}
	return doc, nil
}

// ValidateTransfer traslado entre dos bodegas distintas.
func ValidateTransfer(raw []byte) (*entity.Document, []domain.FieldError) {
	var in dto.CreateTransferRequest
	if fields := decode(raw, &in); len(fields) > 0 {
		return nil, fields
	}
	doc := &entity.Document{Type: entity.DocumentTransfer, WarehouseID: in.FromWarehouseID, ToWarehouseID: in.ToWarehouseID, Remark: in.Remark}
	for _, it := range in.Items {
		doc.Lines = append(doc.Lines, entity.DocumentLine{SKUID: it.SKUID, Quantity: it.Quantity})
	}
	return doc, nil
}
