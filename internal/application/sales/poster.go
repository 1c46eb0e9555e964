package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/posting"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// WalkInCustomer nombre impreso cuando la venta no tiene cliente.
const WalkInCustomer = "Cliente de mostrador"

// poster aplica y revierte ventas dentro de una transacción ya abierta.
// Lo comparten el registro directo, la edición y la finalización de borradores.
type poster struct {
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// validateSale normaliza la cabecera y valida las líneas antes de abrir la transacción.
func validateSale(in *dto.PostSaleRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}
	if in.SaleType == "" {
		in.SaleType = entity.SaleTypeRetail
	}
	if in.SaleType != entity.SaleTypeRetail && in.SaleType != entity.SaleTypeWholesale {
		return fmt.Errorf("%w: tipo de venta %q", domain.ErrInvalidInput, in.SaleType)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
		if in.IsCredit {
			in.PaymentMethod = entity.PaymentCredit
		}
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.AmountPaid.IsNegative() {
		return fmt.Errorf("%w: el monto pagado no puede ser negativo", domain.ErrInvalidInput)
	}
	if err := validateDiscount(in.DiscountAmount, in.DiscountPercent); err != nil {
		return err
	}
	pd := in.PaymentDetails
	for _, v := range []decimal.Decimal{pd.Cash, pd.Mpesa, pd.Card, pd.Cheque} {
		if v.IsNegative() {
			return fmt.Errorf("%w: el desglose de pago no admite montos negativos", domain.ErrInvalidInput)
		}
	}
	for i, l := range in.Items {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if l.Price.IsNegative() {
			return fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		if err := validateDiscount(l.DiscountAmount, l.DiscountPercent); err != nil {
			return fmt.Errorf("línea %d: %w", i+1, err)
		}
	}
	return nil
}

func validateDiscount(amount, percent decimal.Decimal) error {
	if amount.IsNegative() || percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: descuento fuera de rango", domain.ErrInvalidInput)
	}
	return nil
}

// lockProducts bloquea los productos en orden ascendente de id (evita interbloqueos entre ventas).
func lockProducts(ctx context.Context, s repository.Store, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range uniqueSorted(ids) {
		p, err := s.Products().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		out[id] = p
	}
	return out, nil
}

// lockBatches bloquea los lotes en orden ascendente de id.
func lockBatches(ctx context.Context, s repository.Store, ids []string) (map[string]*entity.Batch, error) {
	out := make(map[string]*entity.Batch, len(ids))
	for _, id := range uniqueSorted(ids) {
		b, err := s.Batches().GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		out[id] = b
	}
	return out, nil
}

func lockCustomer(ctx context.Context, s repository.Store, id string) (*entity.Customer, error) {
	if id == "" {
		return nil, nil
	}
	c, err := s.Customers().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func lineIDs(in dto.PostSaleRequest) (products, batches []string) {
	for _, l := range in.Items {
		products = append(products, l.ProductID)
		batches = append(batches, l.BatchID)
	}
	return products, batches
}

// post aplica la venta. sale nil crea una nueva; si no, reescribe esa venta (ya revertida).
func (p *poster) post(ctx context.Context, s repository.Store, shop entity.Company, userID string, sale *entity.Sale, in dto.PostSaleRequest) (*dto.PostSaleResponse, error) {
	customer, err := lockCustomer(ctx, s, in.CustomerID)
	if err != nil {
		return nil, err
	}
	productIDs, batchIDs := lineIDs(in)
	products, err := lockProducts(ctx, s, productIDs)
	if err != nil {
		return nil, err
	}
	batches, err := lockBatches(ctx, s, batchIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]posting.Line, len(in.Items))
	for i, l := range in.Items {
		if l.BatchID != "" && batches[l.BatchID].ProductID != l.ProductID {
			return nil, fmt.Errorf("%w: el lote %s no pertenece al producto %s", domain.ErrInvalidInput, l.BatchID, l.ProductID)
		}
		price := l.Price
		if price.IsZero() {
			negotiated, err := companyPrice(ctx, s, shop.ID, l.ProductID)
			if err != nil {
				return nil, err
			}
			price = products[l.ProductID].PriceFor(in.SaleType, l.Quantity, negotiated)
		}
		lines[i] = posting.Line{
			Quantity:        l.Quantity,
			Price:           posting.Money(price),
			DiscountAmount:  l.DiscountAmount,
			DiscountPercent: l.DiscountPercent,
		}
	}
	totals, lineTotals := posting.ComputeTotals(lines, in.DiscountAmount, in.DiscountPercent)
	p.logClientEcho(in, totals)

	// Existencias resultantes por línea; varias líneas del mismo producto se acumulan.
	productQty := make(map[string]decimal.Decimal, len(products))
	for id, pr := range products {
		productQty[id] = pr.Quantity
	}
	batchQty := make(map[string]decimal.Decimal, len(batches))
	for id, b := range batches {
		batchQty[id] = b.Quantity
	}
	productNext := make([]decimal.Decimal, len(in.Items))
	batchNext := make([]decimal.Decimal, len(in.Items))
	for i, l := range in.Items {
		next, short := posting.Decrement(productQty[l.ProductID], l.Quantity)
		if short.IsPositive() {
			if err := p.oversell(products[l.ProductID].Name, productQty[l.ProductID], l.Quantity); err != nil {
				return nil, err
			}
		}
		productQty[l.ProductID] = next
		productNext[i] = next
		if l.BatchID != "" {
			next, short := posting.Decrement(batchQty[l.BatchID], l.Quantity)
			if short.IsPositive() {
				if err := p.oversell(products[l.ProductID].Name+" lote "+batches[l.BatchID].BatchNumber, batchQty[l.BatchID], l.Quantity); err != nil {
					return nil, err
				}
			}
			batchQty[l.BatchID] = next
			batchNext[i] = next
		}
	}

	now := p.now()
	amountPaid := posting.Money(in.AmountPaid)
	isNew := sale == nil
	if !isNew {
		// Los abonos ya registrados siguen contando como pagados tras la edición.
		recorded, err := recordedPayments(ctx, s, sale.ID)
		if err != nil {
			return nil, err
		}
		amountPaid = amountPaid.Add(recorded)
	}
	if isNew {
		seq, err := s.Sequences().Next(ctx, posting.SeqSale, now)
		if err != nil {
			return nil, err
		}
		sale = &entity.Sale{
			ID:         uuid.New().String(),
			SaleNumber: posting.DailyNumber(posting.PrefixSale, now, seq),
			UserID:     userID,
			CreatedAt:  now,
		}
	}
	sale.CustomerID = in.CustomerID
	sale.SaleType = in.SaleType
	sale.Subtotal = totals.Subtotal
	sale.DiscountAmount = totals.Discount
	sale.DiscountPercent = in.DiscountPercent
	sale.Total = totals.Total
	sale.PaymentMethod = in.PaymentMethod
	sale.AmountPaid = amountPaid
	sale.Balance = posting.Balance(totals.Total, amountPaid)
	sale.IsCredit = in.IsCredit
	sale.IsPaid = sale.Balance.IsZero()
	sale.IsCompleted = true
	sale.PaymentDetails = toPaymentDetails(in.PaymentDetails)
	sale.Notes = in.Notes
	sale.UpdatedAt = now
	if isNew {
		err = s.Sales().Create(ctx, sale)
	} else {
		err = s.Sales().Update(ctx, sale)
	}
	if err != nil {
		return nil, err
	}

	items := make([]*entity.SaleItem, len(in.Items))
	itemIDs := make([]string, len(in.Items))
	for i, l := range in.Items {
		discount, _ := posting.LineTotal(lines[i])
		item := &entity.SaleItem{
			ID:              uuid.New().String(),
			SaleID:          sale.ID,
			ProductID:       l.ProductID,
			BatchID:         l.BatchID,
			Quantity:        l.Quantity,
			Price:           lines[i].Price,
			DiscountAmount:  discount,
			DiscountPercent: l.DiscountPercent,
			Total:           lineTotals[i],
		}
		if err := s.Sales().CreateItem(ctx, item); err != nil {
			return nil, err
		}
		if err := s.Products().UpdateQuantity(ctx, l.ProductID, productNext[i]); err != nil {
			return nil, err
		}
		if l.BatchID != "" {
			if err := s.Batches().UpdateQuantity(ctx, l.BatchID, batchNext[i]); err != nil {
				return nil, err
			}
		}
		items[i] = item
		itemIDs[i] = item.ID
	}

	if sale.IsCredit && customer != nil {
		if err := s.Customers().UpdateBalance(ctx, customer.ID, customer.Balance.Add(sale.Balance)); err != nil {
			return nil, err
		}
	}

	pendingDeleted := false
	if in.PendingSaleID != "" {
		ps, err := s.PendingSales().GetByIDForUpdate(ctx, in.PendingSaleID)
		if err != nil {
			return nil, err
		}
		if ps != nil && ps.UserID == userID && ps.IsPending() {
			if err := s.PendingSales().Delete(ctx, ps.ID); err != nil {
				return nil, err
			}
			pendingDeleted = true
		}
	}

	return &dto.PostSaleResponse{
		SaleID:             sale.ID,
		SaleNumber:         sale.SaleNumber,
		ItemIDs:            itemIDs,
		PendingSaleDeleted: pendingDeleted,
		Receipt:            buildReceipt(shop, sale, items, products, batches, customer),
	}, nil
}

// companyPrice devuelve el precio negociado de la tienda para el producto, o nil.
func companyPrice(ctx context.Context, s repository.Store, companyID, productID string) (*entity.CompanyPrice, error) {
	if companyID == "" {
		return nil, nil
	}
	return s.CompanyPrices().Get(ctx, companyID, productID)
}

func recordedPayments(ctx context.Context, s repository.Store, saleID string) (decimal.Decimal, error) {
	payments, err := s.Payments().ListCustomerPayments(ctx, saleID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (p *poster) oversell(what string, available, requested decimal.Decimal) error {
	if p.opts.RejectOversell {
		return fmt.Errorf("%w: %s (disponible %s, solicitado %s)", domain.ErrInsufficientStock, what, available, requested)
	}
	p.log.Warn().Str("item", what).Str("available", available.String()).Str("requested", requested.String()).
		Msg("venta supera la existencia; se recorta a cero")
	return nil
}

func (p *poster) logClientEcho(in dto.PostSaleRequest, totals posting.Totals) {
	if in.Subtotal != nil && !in.Subtotal.Equal(totals.Subtotal) {
		p.log.Debug().Str("client", in.Subtotal.String()).Str("server", totals.Subtotal.String()).
			Msg("subtotal del cliente difiere; se usa el calculado")
	}
	if in.Total != nil && !in.Total.Equal(totals.Total) {
		p.log.Debug().Str("client", in.Total.String()).Str("server", totals.Total.String()).
			Msg("total del cliente difiere; se usa el calculado")
	}
}

// reverse deshace los efectos de una venta registrada: devuelve existencias a productos y
// lotes, descuenta del cliente el saldo que la venta le sumó y borra las líneas.
func (p *poster) reverse(ctx context.Context, s repository.Store, sale *entity.Sale) error {
	items, err := s.Sales().ListItems(ctx, sale.ID)
	if err != nil {
		return err
	}
	var productIDs, batchIDs []string
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
		batchIDs = append(batchIDs, it.BatchID)
	}
	products, err := lockProducts(ctx, s, productIDs)
	if err != nil {
		return err
	}
	batches := make(map[string]*entity.Batch)
	for _, id := range uniqueSorted(batchIDs) {
		b, err := s.Batches().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b != nil { // lote borrado desde entonces: solo se restaura el producto
			batches[id] = b
		}
	}
	for _, it := range items {
		pr := products[it.ProductID]
		pr.Quantity, _ = posting.Apply(pr.Quantity, it.Quantity)
		if b, ok := batches[it.BatchID]; ok {
			b.Quantity, _ = posting.Apply(b.Quantity, it.Quantity)
		}
	}
	for _, id := range uniqueSorted(productIDs) {
		if err := s.Products().UpdateQuantity(ctx, id, products[id].Quantity); err != nil {
			return err
		}
	}
	for _, id := range uniqueSorted(batchIDs) {
		if b, ok := batches[id]; ok {
			if err := s.Batches().UpdateQuantity(ctx, id, b.Quantity); err != nil {
				return err
			}
		}
	}

	if sale.IsCredit && sale.CustomerID != "" {
		c, err := s.Customers().GetByIDForUpdate(ctx, sale.CustomerID)
		if err != nil {
			return err
		}
		if c != nil {
			if err := s.Customers().UpdateBalance(ctx, c.ID, c.Balance.Sub(sale.Balance)); err != nil {
				return err
			}
		}
	}
	return s.Sales().DeleteItems(ctx, sale.ID)
}

// buildReceipt arma el contenido del recibo con nombres de producto y números de lote resueltos.
func buildReceipt(
	shop entity.Company,
	sale *entity.Sale,
	items []*entity.SaleItem,
	products map[string]*entity.Product,
	batches map[string]*entity.Batch,
	customer *entity.Customer,
) entity.ReceiptContent {
	content := entity.ReceiptContent{
		Company: entity.ReceiptCompany{
			Name:      shop.Name,
			TaxNumber: shop.TaxNumber,
			Address:   shop.Address,
			Phone:     shop.Phone,
			Email:     shop.Email,
			Currency:  shop.Currency,
			Footer:    shop.ReceiptFooter,
		},
		SaleID:         sale.ID,
		SaleNumber:     sale.SaleNumber,
		Date:           sale.CreatedAt,
		CustomerName:   WalkInCustomer,
		SaleType:       sale.SaleType,
		PaymentMethod:  sale.PaymentMethod,
		PaymentDetails: sale.PaymentDetails,
		Lines:          make([]entity.ReceiptLine, 0, len(items)),
		Subtotal:       sale.Subtotal,
		Discount:       sale.DiscountAmount,
		Total:          sale.Total,
		AmountPaid:     sale.AmountPaid,
		Change:         posting.Change(sale.AmountPaid, sale.Total),
		Balance:        sale.Balance,
		IsCredit:       sale.IsCredit,
	}
	if customer != nil {
		content.CustomerName = customer.Name
		content.CustomerPhone = customer.Phone
	}
	for _, it := range items {
		line := entity.ReceiptLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Discount:  it.DiscountAmount,
			Total:     it.Total,
		}
		if pr, ok := products[it.ProductID]; ok {
			line.Name = pr.Name
			line.Barcode = pr.Barcode
		}
		if b, ok := batches[it.BatchID]; ok {
			line.BatchNumber = b.BatchNumber
		}
		content.Lines = append(content.Lines, line)
	}
	return content
}
