package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/pkg/errors"
)

// In-memory repositories with the same revision semantics as the Mongo
// adapters: reads hand out copies, writes compare-and-swap on revision.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return errors.BadRequest("User already exists", nil)
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := cloneUser(u)
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := cloneUser(u)
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func cloneUser(u entity.User) entity.User {
	if u.Ratings.Breakdown != nil {
		breakdown := make(map[string]int, len(u.Ratings.Breakdown))
		for k, v := range u.Ratings.Breakdown {
			breakdown[k] = v
		}
		u.Ratings.Breakdown = breakdown
	}
	return u
}

type fakeAuctionRepo struct {
	mu           sync.Mutex
	auctions     map[string]entity.Auction
	nextID       int
	conflictNext bool
}

func newFakeAuctionRepo() *fakeAuctionRepo {
	return &fakeAuctionRepo{auctions: map[string]entity.Auction{}}
}

func (r *fakeAuctionRepo) Create(ctx context.Context, auction *entity.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if auction.ID == "" {
		r.nextID++
		auction.ID = fmt.Sprintf("AUC-%d", r.nextID)
	}
	auction.Revision = 1
	r.auctions[auction.ID] = cloneAuction(*auction)
	return nil
}

func (r *fakeAuctionRepo) GetByID(ctx context.Context, id string) (*entity.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[id]
	if !ok {
		return nil, errors.NotFound("Auction", nil)
	}
	copied := cloneAuction(a)
	return &copied, nil
}

func (r *fakeAuctionRepo) ListActive(ctx context.Context, now string) ([]*entity.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Auction{}
	for _, a := range r.auctions {
		if strings.Compare(a.AuctionEndDate, now) > 0 {
			copied := cloneAuction(a)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Auction{}
	for _, a := range r.auctions {
		if a.SellerID == sellerID {
			copied := cloneAuction(a)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAuctionRepo) Update(ctx context.Context, auction *entity.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictNext {
		r.conflictNext = false
		return errors.Conflict("Auction was modified concurrently")
	}
	stored, ok := r.auctions[auction.ID]
	if !ok {
		return errors.NotFound("Auction", nil)
	}
	if stored.Revision != auction.Revision {
		return errors.Conflict("Auction was modified concurrently")
	}
	auction.Revision++
	r.auctions[auction.ID] = cloneAuction(*auction)
	return nil
}

func (r *fakeAuctionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.auctions[id]; !ok {
		return errors.NotFound("Auction", nil)
	}
	delete(r.auctions, id)
	return nil
}

func cloneAuction(a entity.Auction) entity.Auction {
	a.TopBids = append([]entity.TopBid(nil), a.TopBids...)
	return a
}

type fakeChatRepo struct {
	mu           sync.Mutex
	chats        map[string]entity.Chat
	nextID       int
	conflictNext bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]entity.Chat{}}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID == "" {
		r.nextID++
		chat.ID = fmt.Sprintf("CHAT-%d", r.nextID)
	}
	chat.Revision = 1
	if chat.Messages == nil {
		chat.Messages = []entity.Message{}
	}
	if chat.Negotiation.History == nil {
		chat.Negotiation.History = []entity.Offer{}
	}
	r.chats[chat.ID] = cloneChat(*chat)
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := cloneChat(c)
	return &copied, nil
}

func (r *fakeChatRepo) FindActiveByParticipants(ctx context.Context, userID1, userID2 string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.IsActive && c.HasParticipant(userID1) && c.HasParticipant(userID2) {
			copied := cloneChat(c)
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) ListActiveByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Chat{}
	for _, c := range r.chats {
		if c.IsActive && c.HasParticipant(userID) {
			copied := cloneChat(c)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictNext {
		r.conflictNext = false
		return errors.Conflict("Chat was modified concurrently")
	}
	stored, ok := r.chats[chat.ID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	if stored.Revision != chat.Revision {
		return errors.Conflict("Chat was modified concurrently")
	}
	chat.Revision++
	r.chats[chat.ID] = cloneChat(*chat)
	return nil
}

func cloneChat(c entity.Chat) entity.Chat {
	c.Participants = append([]entity.Participant(nil), c.Participants...)
	c.Messages = append([]entity.Message(nil), c.Messages...)
	c.Negotiation.History = append([]entity.Offer(nil), c.Negotiation.History...)
	return c
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]entity.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]entity.Product{}}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		r.nextID++
		product.ID = fmt.Sprintf("PROD-%d", r.nextID)
	}
	product.Revision = 1
	product.IsActive = true
	if product.Availability == "" {
		product.Availability = "available"
	}
	if product.Ratings == nil {
		product.Ratings = []entity.ProductRating{}
	}
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := cloneProduct(p)
	return &copied, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Product{}
	for _, p := range r.products {
		if p.IsActive && p.Availability == "available" {
			copied := cloneProduct(p)
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListByFarmerID(ctx context.Context, farmerID string) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Product{}
	for _, p := range r.products {
		if p.IsActive && p.FarmerID == farmerID {
			copied := cloneProduct(p)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[product.ID]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	if stored.Revision != product.Revision {
		return errors.Conflict("Product was modified concurrently")
	}
	product.Revision++
	r.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *fakeProductRepo) DecrementQuantity(ctx context.Context, id string, quantity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	p.Quantity -= quantity
	r.products[id] = p
	return nil
}

func cloneProduct(p entity.Product) entity.Product {
	p.Ratings = append([]entity.ProductRating(nil), p.Ratings...)
	p.Images = append([]string(nil), p.Images...)
	return p
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[string]entity.Transaction
	nextID       int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: map[string]entity.Transaction{}}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if transaction.ID == "" {
		r.nextID++
		transaction.ID = fmt.Sprintf("TXN-%d", r.nextID)
	}
	transaction.Revision = 1
	if transaction.Communication == nil {
		transaction.Communication = []entity.CommunicationEntry{}
	}
	r.transactions[transaction.ID] = cloneTransaction(*transaction)
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	copied := cloneTransaction(t)
	return &copied, nil
}

func (r *fakeTransactionRepo) ListByUserID(ctx context.Context, userID, txType, deliveryStatus string, limit, offset int) ([]*entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Transaction{}
	for _, t := range r.transactions {
		if !t.IsParty(userID) {
			continue
		}
		if txType != "" && t.Type != txType {
			continue
		}
		if deliveryStatus != "" && t.Delivery.Status != deliveryStatus {
			continue
		}
		copied := cloneTransaction(t)
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.transactions[transaction.ID]
	if !ok {
		return errors.NotFound("Transaction", nil)
	}
	if stored.Revision != transaction.Revision {
		return errors.Conflict("Transaction was modified concurrently")
	}
	transaction.Revision++
	r.transactions[transaction.ID] = cloneTransaction(*transaction)
	return nil
}

func (r *fakeTransactionRepo) Stats(ctx context.Context) (*repository.TransactionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.TransactionStats{}
	for _, t := range r.transactions {
		stats.TotalTransactions++
		switch t.Delivery.Status {
		case entity.DeliveryStatusDelivered:
			stats.CompletedTransactions++
		case entity.DeliveryStatusPending:
			stats.PendingTransactions++
		}
		if t.Dispute.IsDisputed {
			stats.DisputedTransactions++
		}
		if t.Payment.Status == entity.PaymentStatusCompleted {
			stats.TotalRevenue += t.OrderDetails.TotalAmount
		}
	}
	return stats, nil
}

func cloneTransaction(t entity.Transaction) entity.Transaction {
	t.Communication = append([]entity.CommunicationEntry(nil), t.Communication...)
	return t
}

// recordingNotifier captures outbound notifications per user.
type recordingNotifier struct {
	mu       sync.Mutex
	payloads map[string][][]byte
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{payloads: map[string][][]byte{}}
}

func (n *recordingNotifier) SendToUser(userID string, message []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads[userID] = append(n.payloads[userID], message)
}

func (n *recordingNotifier) countFor(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.payloads[userID])
}
