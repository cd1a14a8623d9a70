// Package api exposes the funding ledger over HTTP.
package api

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheikh-saqib/funding-ledger/internal/chain"
	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/ledger"
	"github.com/sheikh-saqib/funding-ledger/internal/models"
	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

// Executor runs one ledger call at a time.
type Executor interface {
	Exec(fn func() error) error
}

// Faucet credits identities on development networks.
type Faucet interface {
	Mint(identity string, amount *big.Int) error
}

type Server struct {
	ledger  *ledger.Ledger
	exec    Executor
	journal interfaces.ReceiptJournal
	faucet  Faucet // nil outside development networks
}

func NewServer(l *ledger.Ledger, exec Executor, journal interfaces.ReceiptJournal, faucet Faucet) *Server {
	return &Server{ledger: l, exec: exec, journal: journal, faucet: faucet}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/fund", s.fund)
	r.POST("/withdraw", s.withdraw(false))
	r.POST("/cheap-withdraw", s.withdraw(true))

	r.GET("/price-feed", s.priceFeed)
	r.GET("/balance", s.contractBalance)
	r.GET("/accounts/:identity/balance", s.accountBalance)
	r.GET("/funders/:index", s.funder)
	r.GET("/funded/:identity", s.funded)
	r.GET("/receipts", s.receipts)

	if s.faucet != nil {
		r.POST("/dev/faucet", s.mint)
	}
	return r
}

type fundRequest struct {
	Caller string `json:"caller" binding:"required"`
	Amount string `json:"amount" binding:"required"` // ether, e.g. "0.1"
}

type callerRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type receiptResponse struct {
	TxID        string    `json:"tx_id"`
	Kind        string    `json:"kind"`
	Caller      string    `json:"caller"`
	Value       string    `json:"value"`
	GasUsed     uint64    `json:"gas_used"`
	GasPriceWei string    `json:"gas_price_wei"`
	Fee         string    `json:"fee"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type amountResponse struct {
	Identity string `json:"identity,omitempty"`
	Ether    string `json:"ether"`
	Wei      string `json:"wei"`
}

func toReceiptResponse(r models.Receipt) receiptResponse {
	return receiptResponse{
		TxID:        r.TxID,
		Kind:        string(r.Kind),
		Caller:      r.Caller,
		Value:       units.FormatEther(r.Value),
		GasUsed:     r.GasUsed,
		GasPriceWei: r.GasPrice.String(),
		Fee:         units.FormatEther(r.Fee),
		Status:      string(r.Status),
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}

func toAmount(identity string, wei *big.Int) amountResponse {
	return amountResponse{Identity: identity, Ether: units.FormatEther(wei), Wei: wei.String()}
}

func (s *Server) fund(c *gin.Context) {
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := units.ParseEther(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var receipt models.Receipt
	err = s.exec.Exec(func() error {
		receipt, err = s.ledger.Fund(c.Request.Context(), req.Caller, amount)
		return err
	})
	respondReceipt(c, receipt, err)
}

func (s *Server) withdraw(cheap bool) gin.HandlerFunc {
	call := s.ledger.Withdraw
	if cheap {
		call = s.ledger.CheapWithdraw
	}
	return func(c *gin.Context) {
		var req callerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var receipt models.Receipt
		err := s.exec.Exec(func() error {
			var err error
			receipt, err = call(c.Request.Context(), req.Caller)
			return err
		})
		respondReceipt(c, receipt, err)
	}
}

func (s *Server) priceFeed(c *gin.Context) {
	resp := gin.H{"address": s.ledger.GetPriceFeed().Address()}
	var price *big.Int
	err := s.exec.Exec(func() error {
		var err error
		price, err = s.ledger.GetConversionRate(c.Request.Context(), units.MustParseEther("1"))
		return err
	})
	if err != nil {
		resp["error"] = err.Error()
	} else {
		resp["price"] = units.FormatReference(price)
	}
	resp["minimum"] = units.FormatReference(s.ledger.MinimumReference())
	c.JSON(http.StatusOK, resp)
}

func (s *Server) contractBalance(c *gin.Context) {
	s.readAmount(c, s.ledger.Address(), s.ledger.GetContractBalance)
}

func (s *Server) accountBalance(c *gin.Context) {
	identity := c.Param("identity")
	s.readAmount(c, identity, func(ctx context.Context) (*big.Int, error) {
		return s.ledger.GetBalance(ctx, identity)
	})
}

func (s *Server) funded(c *gin.Context) {
	identity := c.Param("identity")
	s.readAmount(c, identity, func(ctx context.Context) (*big.Int, error) {
		return s.ledger.GetAddressToAmountFunded(ctx, identity)
	})
}

func (s *Server) readAmount(c *gin.Context, identity string, read func(ctx context.Context) (*big.Int, error)) {
	var amount *big.Int
	err := s.exec.Exec(func() error {
		var err error
		amount, err = read(c.Request.Context())
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAmount(identity, amount))
}

func (s *Server) funder(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	var funder string
	err = s.exec.Exec(func() error {
		funder, err = s.ledger.GetFunder(c.Request.Context(), index)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index, "funder": funder})
}

func (s *Server) receipts(c *gin.Context) {
	receipts, err := s.journal.Receipts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]receiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceiptResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) mint(c *gin.Context) {
	var req struct {
		Identity string `json:"identity" binding:"required"`
		Amount   string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := units.ParseEther(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Identity == s.ledger.Address() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot mint to the ledger's custody account"})
		return
	}
	err = s.exec.Exec(func() error {
		return s.faucet.Mint(req.Identity, amount)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAmount(req.Identity, amount))
}

func respondReceipt(c *gin.Context, r models.Receipt, err error) {
	if err != nil {
		status := statusFor(err)
		body := gin.H{"error": err.Error()}
		if r.TxID != "" {
			body["receipt"] = toReceiptResponse(r)
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, toReceiptResponse(r))
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInsufficientContribution):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrOracleUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, chain.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, chain.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
