package membership

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// invoiceSeq starts at a random offset so invoice numbers from different
// process runs are unlikely to line up. Within one run the counter makes
// the 4-digit suffix cycle through all values before repeating, so up to
// ten thousand invoices per day are collision-free.
var invoiceSeq = uint64(rand.Intn(10000))

// NewInvoiceNumber returns an invoice number of the form INV-YYYYMMDD-NNNN.
func NewInvoiceNumber() string {
	seq := atomic.AddUint64(&invoiceSeq, 1)
	return fmt.Sprintf("INV-%s-%04d", time.Now().Format("20060102"), seq%10000)
}
