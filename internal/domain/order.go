package domain

import "strings"

// InvoiceMarker — обязательный первый символ канонического номера счёта.
const InvoiceMarker = "#"

// InvoiceQuery — нормализованный номер счёта (имя заказа), всегда с ведущим "#".
type InvoiceQuery string

// NormalizeInvoice — обрезать пробелы и ведущие "#", затем добавить ровно один "#".
// Повторная нормализация канонического значения ничего не меняет.
func NormalizeInvoice(raw string) (InvoiceQuery, bool) {
	v := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), InvoiceMarker))
	if v == "" {
		return "", false
	}
	return InvoiceQuery(InvoiceMarker + v), true
}

func (q InvoiceQuery) String() string { return string(q) }

// UnitStatus — статус fulfillment order во внешней системе.
type UnitStatus string

const (
	UnitOpen      UnitStatus = "OPEN"
	UnitScheduled UnitStatus = "SCHEDULED"
	UnitClosed    UnitStatus = "CLOSED"
)

// LineItem — позиция внутри fulfillment order.
type LineItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// FulfillableUnit — группа позиций заказа, которую можно отметить выполненной целиком.
type FulfillableUnit struct {
	ID        string     `json:"id"`
	Status    UnitStatus `json:"status"`
	LineItems []LineItem `json:"line_items"`
}

// Open — только OPEN допускается к фиксации.
func (u FulfillableUnit) Open() bool {
	return strings.EqualFold(string(u.Status), string(UnitOpen))
}

// OrderLookup — результат поиска заказа; Found=false означает NotFound.
type OrderLookup struct {
	Found     bool
	OrderID   string
	OrderName string
	Units     []FulfillableUnit
}

// OpenUnits — отобрать единицы со статусом OPEN, сохраняя порядок.
func (l OrderLookup) OpenUnits() []FulfillableUnit {
	var open []FulfillableUnit
	for _, u := range l.Units {
		if u.Open() {
			open = append(open, u)
		}
	}
	return open
}

// OutcomeKind — вид терминального бизнес-результата.
type OutcomeKind string

const (
	OutcomeAlreadyFulfilled OutcomeKind = "already_fulfilled"
	OutcomeCommitted        OutcomeKind = "committed"
	OutcomeRejected         OutcomeKind = "rejected"
)

// Outcome — итог фиксации: AlreadyFulfilled, Committed{FulfillmentID} или Rejected{Reasons}.
type Outcome struct {
	Kind          OutcomeKind
	OrderName     string
	FulfillmentID string
	Reasons       []string
}

func AlreadyFulfilled(orderName string) Outcome {
	return Outcome{Kind: OutcomeAlreadyFulfilled, OrderName: orderName}
}

func Committed(orderName, fulfillmentID string) Outcome {
	return Outcome{Kind: OutcomeCommitted, OrderName: orderName, FulfillmentID: fulfillmentID}
}

func Rejected(orderName string, reasons ...string) Outcome {
	return Outcome{Kind: OutcomeRejected, OrderName: orderName, Reasons: reasons}
}
