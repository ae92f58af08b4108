package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"livraison-telegram/services"

	"github.com/gin-gonic/gin"
)

// statusChangeRequest is the boundary contract for a status-changing edit:
// the target status plus optional manual money fields and quartier. The
// response is the updated delivery row with the computed fields.
type statusChangeRequest struct {
	Status      string  `json:"status"`
	DeliveryFee *int64  `json:"delivery_fee"`
	AmountPaid  *int64  `json:"amount_paid"`
	Quartier    *string `json:"quartier"`
}

func validateStatusChange(r statusChangeRequest) error {
	if r.Status == "" && r.DeliveryFee == nil && r.AmountPaid == nil && r.Quartier == nil {
		return fmt.Errorf("empty request")
	}
	if r.DeliveryFee != nil && *r.DeliveryFee < 0 {
		return fmt.Errorf("delivery_fee must not be negative")
	}
	if r.AmountPaid != nil && *r.AmountPaid < 0 {
		return fmt.Errorf("amount_paid must not be negative")
	}
	return nil
}

func changeDeliveryStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateStatusChange(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	d, err := services.GetDeliveryByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery not found"})
		return
	}
	after, err := services.ApplyChangeRequest(ctx, d, services.ChangeRequest{
		Status:      req.Status,
		DeliveryFee: req.DeliveryFee,
		AmountPaid:  req.AmountPaid,
		Quartier:    req.Quartier,
	}, "api:"+c.GetString(authUserKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, after)
}

func getDelivery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	d, err := services.GetDeliveryByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func listDeliveries(c *gin.Context) {
	agencyID, _ := strconv.ParseInt(c.Query("agency_id"), 10, 64)
	f := services.DeliveryFilter{
		AgencyID: agencyID,
		Phone:    c.Query("phone"),
		Status:   c.Query("status"),
		Date:     c.Query("date"),
	}
	if f.Date != "" && !validDate(f.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	list, err := services.ListDeliveries(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": list})
}

func getDeliveryHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery id"})
		return
	}
	entries, err := services.ListHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

type tariffRequest struct {
	AgencyID    int64  `json:"agency_id"`
	Quartier    string `json:"quartier"`
	TarifAmount int64  `json:"tarif_amount"`
}

func upsertTariff(c *gin.Context) {
	var req tariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AgencyID == 0 || req.Quartier == "" || req.TarifAmount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_id, quartier and a non-negative tarif_amount are required"})
		return
	}
	if err := services.UpsertTariff(c.Request.Context(), req.AgencyID, req.Quartier, req.TarifAmount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func listTariffs(c *gin.Context) {
	agencyID, err := strconv.ParseInt(c.Query("agency_id"), 10, 64)
	if err != nil || agencyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agency_id is required"})
		return
	}
	list, err := services.ListTariffs(c.Request.Context(), agencyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tariffs": list})
}

func dailyStats(c *gin.Context) {
	date := c.Query("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	agencyID, _ := strconv.ParseInt(c.Query("agency_id"), 10, 64)
	s, err := services.GetDailyStats(c.Request.Context(), agencyID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validDate(s string) bool {
	return dateRe.MatchString(s)
}
