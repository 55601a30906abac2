package valuation

import (
	"sort"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a cash or P&L effect of one ledger row.
type MovementKind int

const (
	MoveCashIn MovementKind = iota + 1
	MoveCashOut
	MoveDistribution
	MoveCommission
	MoveTax
	MoveRealized // gross gain of a closing trade, plus any cash flow booked on a trade row
	MoveTrade    // cash paid or received for a trade, -quantity*price
	MoveTransfer // one leg of an FX conversion
)

// Movement is one typed effect, in the currency it happened in.
type Movement struct {
	Date       time.Time
	Kind       MovementKind
	Currency   string
	SecurityID string
	Amount     decimal.Decimal
	Closing    bool // commission charged on a trade that closed lots
	// RoundTrip is the 1-based round trip of SecurityID the row was booked
	// in, or the last closed one for rows after it. 0 when none has opened.
	RoundTrip int
}

// Ledger is the date-ordered input of a scope.
type Ledger struct {
	Transactions   []domain.Transaction
	FXTransactions []domain.FXTransaction
}

// NewLedger copies and sorts the rows by date, keeping input order on ties.
func NewLedger(txs []domain.Transaction, fxs []domain.FXTransaction) Ledger {
	l := Ledger{
		Transactions:   append([]domain.Transaction(nil), txs...),
		FXTransactions: append([]domain.FXTransaction(nil), fxs...),
	}
	sort.SliceStable(l.Transactions, func(i, j int) bool {
		return l.Transactions[i].Date.Before(l.Transactions[j].Date)
	})
	sort.SliceStable(l.FXTransactions, func(i, j int) bool {
		return l.FXTransactions[i].Date.Before(l.FXTransactions[j].Date)
	})
	return l
}

// Empty reports whether the ledger has no rows at all.
func (l Ledger) Empty() bool {
	return len(l.Transactions) == 0 && len(l.FXTransactions) == 0
}

// FirstDate is the date of the earliest row.
func (l Ledger) FirstDate() (time.Time, bool) {
	var first time.Time
	found := false
	if len(l.Transactions) > 0 {
		first, found = l.Transactions[0].Date, true
	}
	if len(l.FXTransactions) > 0 && (!found || l.FXTransactions[0].Date.Before(first)) {
		first, found = l.FXTransactions[0].Date, true
	}
	return first, found
}

// ForSecurity keeps only the rows that reference securityID.
func (l Ledger) ForSecurity(securityID string) Ledger {
	out := Ledger{}
	for _, tx := range l.Transactions {
		if tx.SecurityIDOrEmpty() == securityID {
			out.Transactions = append(out.Transactions, tx)
		}
	}
	return out
}

// SecurityIDs lists referenced securities in first-seen order.
func (l Ledger) SecurityIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, tx := range l.Transactions {
		id := tx.SecurityIDOrEmpty()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Holding is an open position of a book.
type Holding struct {
	SecurityID string
	Currency   string
	Quantity   decimal.Decimal
	Cost       decimal.Decimal
}

// Book is the replayed state of a ledger: cash per currency and one FIFO
// lot queue per security.
type Book struct {
	cash      map[string]decimal.Decimal
	positions map[string]*lotQueue
	trips     map[string]int
	order     []string
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{
		cash:      make(map[string]decimal.Decimal),
		positions: make(map[string]*lotQueue),
		trips:     make(map[string]int),
	}
}

func (b *Book) addCash(currency string, amount decimal.Decimal) {
	b.cash[currency] = b.cash[currency].Add(amount)
}

// ApplyTransaction books tx and returns its movements.
func (b *Book) ApplyTransaction(tx domain.Transaction) []Movement {
	ccy := domain.NormalizeCurrency(tx.Currency)
	secID := tx.SecurityIDOrEmpty()
	cashFlow := tx.CashFlowOrZero()
	commission := tx.CommissionCost()
	var moves []Movement
	emit := func(kind MovementKind, amount decimal.Decimal, closing bool) {
		if amount.IsZero() {
			return
		}
		moves = append(moves, Movement{
			Date: tx.Date, Kind: kind, Currency: ccy, SecurityID: secID, Amount: amount,
			Closing: closing, RoundTrip: b.trips[secID],
		})
	}

	closing := false
	qty := tx.QuantityOrZero()
	if secID != "" && !qty.IsZero() {
		q, ok := b.positions[secID]
		if !ok {
			q = &lotQueue{currency: ccy}
			b.positions[secID] = q
			b.order = append(b.order, secID)
		}
		if q.quantity().IsZero() {
			b.trips[secID]++
		}
		price := tx.PriceOrZero()
		realized, closed := q.trade(tx.Date, qty, price)
		closing = closed
		tradeCash := qty.Mul(price).Neg()
		b.addCash(ccy, tradeCash)
		emit(MoveTrade, tradeCash, false)
		if closed {
			moves = append(moves, Movement{
				Date: tx.Date, Kind: MoveRealized, Currency: ccy, SecurityID: secID, Amount: realized,
				RoundTrip: b.trips[secID],
			})
		}
	}

	b.addCash(ccy, cashFlow)
	switch {
	case tx.Type == domain.TransactionCashIn:
		emit(MoveCashIn, cashFlow, false)
	case tx.Type == domain.TransactionCashOut:
		emit(MoveCashOut, cashFlow, false)
	case tx.Type == domain.TransactionTax:
		emit(MoveTax, cashFlow.Neg(), false)
	case tx.Type.IsCommission():
		emit(MoveCommission, cashFlow.Neg(), false)
	case tx.Type.IsTrade():
		emit(MoveRealized, cashFlow, false)
	case tx.Type.IsDistribution():
		emit(MoveDistribution, cashFlow, false)
	}

	b.addCash(ccy, commission.Neg())
	emit(MoveCommission, commission, closing)
	return moves
}

// ApplyFX books an FX conversion and returns its movements.
func (b *Book) ApplyFX(fx domain.FXTransaction) []Movement {
	from := domain.NormalizeCurrency(fx.FromCurrency)
	to := domain.NormalizeCurrency(fx.ToCurrency)
	commission := fx.CommissionCost()

	b.addCash(from, fx.FromAmount.Neg())
	b.addCash(to, fx.ToAmount)
	b.addCash(from, commission.Neg())

	moves := []Movement{
		{Date: fx.Date, Kind: MoveTransfer, Currency: from, Amount: fx.FromAmount.Neg()},
		{Date: fx.Date, Kind: MoveTransfer, Currency: to, Amount: fx.ToAmount},
	}
	if !commission.IsZero() {
		moves = append(moves, Movement{Date: fx.Date, Kind: MoveCommission, Currency: from, Amount: commission})
	}
	return moves
}

// Cash returns a copy of the cash balances.
func (b *Book) Cash() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.cash))
	for k, v := range b.cash {
		out[k] = v
	}
	return out
}

// Position returns the open quantity of a security.
func (b *Book) Position(securityID string) decimal.Decimal {
	if q, ok := b.positions[securityID]; ok {
		return q.quantity()
	}
	return decimal.Zero
}

// Holdings lists the non-zero positions in first-traded order.
func (b *Book) Holdings() []Holding {
	var out []Holding
	for _, id := range b.order {
		q := b.positions[id]
		qty := q.quantity()
		if qty.IsZero() {
			continue
		}
		out = append(out, Holding{SecurityID: id, Currency: q.currency, Quantity: qty, Cost: q.cost()})
	}
	return out
}

// AnyOpen reports whether some position is non-zero.
func (b *Book) AnyOpen() bool {
	return len(b.Holdings()) > 0
}

type entry struct {
	date time.Time
	tx   *domain.Transaction
	fx   *domain.FXTransaction
}

// Cursor replays a ledger forward in date order. Transactions precede FX
// conversions dated the same day.
type Cursor struct {
	entries []entry
	next    int
	book    *Book
	last    time.Time
}

// Cursor starts a replay over the ledger.
func (l Ledger) Cursor() *Cursor {
	entries := make([]entry, 0, len(l.Transactions)+len(l.FXTransactions))
	for i := range l.Transactions {
		entries = append(entries, entry{date: l.Transactions[i].Date, tx: &l.Transactions[i]})
	}
	for i := range l.FXTransactions {
		entries = append(entries, entry{date: l.FXTransactions[i].Date, fx: &l.FXTransactions[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })
	return &Cursor{entries: entries, book: NewBook()}
}

// AdvanceTo applies every row dated on or before date. visit may be nil.
func (c *Cursor) AdvanceTo(date time.Time, visit func(Movement)) {
	for c.next < len(c.entries) && !c.entries[c.next].date.After(date) {
		e := c.entries[c.next]
		var moves []Movement
		if e.tx != nil {
			moves = c.book.ApplyTransaction(*e.tx)
		} else {
			moves = c.book.ApplyFX(*e.fx)
		}
		if visit != nil {
			for _, m := range moves {
				visit(m)
			}
		}
		c.last = e.date
		c.next++
	}
}

// Book is the state after the last AdvanceTo.
func (c *Cursor) Book() *Book { return c.book }

// LastApplied is the date of the most recent applied row.
func (c *Cursor) LastApplied() (time.Time, bool) {
	return c.last, c.next > 0
}

// Replay applies rows dated on or before asOf and returns the book with
// the collected movements.
func Replay(l Ledger, asOf time.Time) (*Book, []Movement) {
	cur := l.Cursor()
	var moves []Movement
	cur.AdvanceTo(asOf, func(m Movement) { moves = append(moves, m) })
	return cur.Book(), moves
}
