package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

const (
	defaultEventsLimit = 100
	maxEventsLimit     = 1000
)

func (s *Server) initialize(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	admin, err := solana.PublicKeyFromBase58(req.Admin)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid admin: %w", err))
		return
	}

	ev, err := s.program.Initialize(signer(c), admin)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) lock(c *gin.Context) {
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ev, err := s.program.LockValue(signer(c), req.Amount, req.Destination)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// withdraw takes no arguments, the whole escrow goes to the signer. The
// body must be empty.
func (s *Server) withdraw(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}
	if len(body) != 0 {
		badRequest(c, fmt.Errorf("withdraw takes no body"))
		return
	}

	ev, err := s.program.EmergencyWithdraw(signer(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) airdrop(c *gin.Context) {
	var req AirdropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := solana.PublicKeyFromBase58(req.Account)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid account: %w", err))
		return
	}

	if err := s.host.Airdrop(account, req.Amount); err != nil {
		s.fail(c, err)
		return
	}

	s.writeBalance(c, account)
}

func (s *Server) state(c *gin.Context) {
	ledger, err := s.program.State()
	if err != nil {
		s.fail(c, err)
		return
	}

	addrs := s.program.Addresses()
	c.JSON(http.StatusOK, &StateResponse{
		Admin:       ledger.Admin.String(),
		TotalLocked: ledger.TotalLocked,
		Nonce:       ledger.Nonce,
		ProgramID:   addrs.ProgramID.String(),
		Ledger:      addrs.Ledger.String(),
		Escrow:      addrs.Escrow.String(),
	})
}

func (s *Server) vault(c *gin.Context) {
	balance, err := s.program.VaultBalance()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Account: s.program.Addresses().Escrow.String(),
		Balance: balance,
	})
}

func (s *Server) balance(c *gin.Context) {
	account, err := solana.PublicKeyFromBase58(c.Param("account"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid account: %w", err))
		return
	}

	s.writeBalance(c, account)
}

func (s *Server) writeBalance(c *gin.Context, account solana.PublicKey) {
	balance, err := s.host.Balance(account)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Account: account.String(),
		Balance: balance,
	})
}

func (s *Server) events(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "1"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid from: %w", err))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventsLimit)))
	if err != nil || limit <= 0 {
		badRequest(c, fmt.Errorf("invalid limit %q", c.Query("limit")))
		return
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	records := s.log.Range(from, limit)
	res := make([]*EventResponse, 0, len(records))
	for _, rec := range records {
		ev, err := rec.Event()
		if err != nil {
			s.fail(c, fmt.Errorf("decode record %d: %w", rec.Seq, err))
			return
		}
		res = append(res, &EventResponse{
			Seq:   rec.Seq,
			Name:  rec.Name,
			Event: ev,
		})
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) eventsRoot(c *gin.Context) {
	root, count, err := s.log.Root()
	if err != nil {
		s.fail(c, err)
		return
	}

	res := &RootResponse{Count: count}
	if root != nil {
		res.Root = hexutil.Encode(root)
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) monitorCursor(c *gin.Context) {
	if s.monitor == nil {
		c.JSON(http.StatusOK, &MonitorResponse{})
		return
	}

	cursor := s.monitor.Cursor()
	c.JSON(http.StatusOK, &MonitorResponse{
		Enable:    true,
		Seq:       cursor.Seq,
		Nonce:     cursor.Nonce,
		Suspended: s.monitor.Suspended(),
	})
}
