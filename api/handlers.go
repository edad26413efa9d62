package api

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tranvictor/nns/nns"
)

const (
	msgFetchNamesFailed = "Failed to fetch names"
	msgValidationPassed = "Validation passed. Proceed with blockchain transaction."
)

// NameEntry is one owned name as listed by GET /api/names. Unset records
// are empty strings.
type NameEntry struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
}

type createNameRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type updateNameRequest struct {
	Address  string  `json:"address" binding:"required"`
	Avatar   *string `json:"avatar"`
	Twitter  *string `json:"twitter"`
	Telegram *string `json:"telegram"`
}

// Transaction is an unsigned contract call returned to the client wallet.
type Transaction struct {
	Method string `json:"method"`
	To     string `json:"to"`
	Value  string `json:"value"`
	Data   string `json:"data"`
}

func NewTransaction(tx *nns.PreparedTx) Transaction {
	value := "0x0"
	if tx.Value != nil {
		value = hexutil.EncodeBig(tx.Value)
	}
	return Transaction{
		Method: tx.Method,
		To:     tx.To.Hex(),
		Value:  value,
		Data:   hexutil.Encode(tx.Data),
	}
}

func bigString(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMetadata serves the NFT metadata of a name. A chain failure still
// yields a minimal document, cached for a shorter time.
func (s *Server) GetMetadata(c *gin.Context) {
	doc, fallback, err := s.svc.Metadata(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if fallback {
		c.Header("Cache-Control", nns.CacheControlFallback)
	} else {
		c.Header("Cache-Control", nns.CacheControlMetadata)
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) GetAvailability(c *gin.Context) {
	name := c.Param("name")
	available, err := s.svc.CheckAvailability(c.Request.Context(), name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "available": available})
}

// ListNames lists the names owned by the address query parameter. Without
// one the list is empty, enumerating every name needs an indexer.
func (s *Server) ListNames(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusOK, []NameEntry{})
		return
	}
	profiles, err := s.svc.GetProfilesOfOwner(c.Request.Context(), address)
	if err != nil {
		s.l.Error("fetching names failed", zap.String("address", address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFetchNamesFailed})
		return
	}
	result := make([]NameEntry, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, NameEntry{
			Name:     p.Label,
			Address:  p.Owner.Hex(),
			Avatar:   derefString(p.Avatar),
			Twitter:  derefString(p.Twitter),
			Telegram: derefString(p.Telegram),
		})
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) session(c *gin.Context) string {
	token, err := c.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return token
}

// CreateName registers a name for the signed-in wallet.
func (s *Server) CreateName(c *gin.Context) {
	var body createNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := nns.RegisterRequest{
		Name:    body.Name,
		Owner:   body.Address,
		Session: s.session(c),
	}

	if !s.relay {
		tx, err := s.svc.PrepareRegister(c.Request.Context(), req)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     msgValidationPassed,
			"transaction": NewTransaction(tx),
		})
		return
	}

	res, err := s.svc.Register(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"name":    res.Name,
		"owner":   res.Owner.Hex(),
		"fee":     bigString(res.Fee),
		"txHash":  res.TxHash.Hex(),
		"tokenId": bigString(res.TokenID),
		"expires": bigString(res.Expires),
	})
}

// UpdateName writes the profile fields present in the body.
func (s *Server) UpdateName(c *gin.Context) {
	var body updateNameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := nns.UpdateRequest{
		Name:     c.Param("name"),
		Owner:    body.Address,
		Session:  s.session(c),
		Avatar:   body.Avatar,
		Twitter:  body.Twitter,
		Telegram: body.Telegram,
	}

	if !s.relay {
		txs, err := s.svc.PrepareUpdate(c.Request.Context(), req)
		if err != nil {
			s.fail(c, err)
			return
		}
		transactions := make([]Transaction, 0, len(txs))
		for _, tx := range txs {
			transactions = append(transactions, NewTransaction(tx))
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      msgValidationPassed,
			"transactions": transactions,
		})
		return
	}

	res, err := s.svc.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		if res != nil && len(res.TxHashes) > 0 {
			c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "txHashes": hashes(res.TxHashes)})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "name": res.Name, "txHashes": hashes(res.TxHashes)})
}

func hashes(m map[string]common.Hash) map[string]string {
	result := map[string]string{}
	for key, hash := range m {
		result[key] = hash.Hex()
	}
	return result
}

// fail writes err with the status of its kind. Internal errors are not
// echoed back.
func (s *Server) fail(c *gin.Context, err error) {
	c.Error(err)
	switch nns.KindOf(err) {
	case nns.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case nns.KindAuthorization:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case nns.KindUnavailable:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case nns.KindUnconfirmed:
		body := gin.H{"error": err.Error()}
		var ue *nns.UnconfirmedError
		if errors.As(err, &ue) {
			body["txHash"] = ue.TxHash.Hex()
		}
		c.JSON(http.StatusGatewayTimeout, body)
	case nns.KindChain:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
