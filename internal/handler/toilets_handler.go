package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Loopee-App/internal/application"
	"Loopee-App/internal/domain/model"
	"Loopee-App/internal/infrastructure/analytics"
)

// ToiletsHandler トイレ検索に関するHTTPハンドラー
type ToiletsHandler struct {
	toiletsService application.ToiletsService
	analytics      *analytics.Client
}

// NewToiletsHandler ToiletsHandlerの新しいインスタンスを作成
func NewToiletsHandler(toiletsService application.ToiletsService, analyticsClient *analytics.Client) *ToiletsHandler {
	return &ToiletsHandler{
		toiletsService: toiletsService,
		analytics:      analyticsClient,
	}
}

// GetNearbyToilets GET /toilets/nearby - 現在地周辺のトイレ一覧を取得
func (h *ToiletsHandler) GetNearbyToilets(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}

	current := model.Location{
		Latitude:  lat,
		Longitude: lng,
	}

	toilets, err := h.toiletsService.GetNearbyToilets(c.Request.Context(), current)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get nearby toilets: " + err.Error(),
		})
		return
	}

	h.analytics.Capture(clientID(c), "nearby_toilets_searched", map[string]interface{}{
		"result_count": len(toilets),
	})

	c.JSON(http.StatusOK, gin.H{
		"toilets": toilets,
	})
}

// GetClusters GET /toilets/clusters - ビューポート内のクラスターを取得
func (h *ToiletsHandler) GetClusters(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}
	latDelta, ok := parseFloatQuery(c, "lat_delta")
	if !ok {
		return
	}
	lngDelta, ok := parseFloatQuery(c, "lng_delta")
	if !ok {
		return
	}

	if latDelta <= 0 || lngDelta <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "lat_delta and lng_delta must be positive",
		})
		return
	}

	viewport := model.Viewport{
		Latitude:       lat,
		Longitude:      lng,
		LatitudeDelta:  latDelta,
		LongitudeDelta: lngDelta,
	}

	result, err := h.toiletsService.GetClusters(c.Request.Context(), viewport)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get clusters: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetToiletDetail GET /toilets/:id - トイレの詳細を取得
func (h *ToiletsHandler) GetToiletDetail(c *gin.Context) {
	toiletID := c.Param("id")
	if toiletID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "Toilet ID is required",
		})
		return
	}

	toilet, err := h.toiletsService.GetToiletDetail(c.Request.Context(), toiletID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Failed to get toilet detail: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, toilet)
}

// SearchToilets GET /toilets/search - キーワードでトイレを検索
func (h *ToiletsHandler) SearchToilets(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "q parameter is required",
		})
		return
	}

	// 位置パラメータは任意。指定された場合は距離順にソートする。
	var origin *model.Location
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lng, err2 := strconv.ParseFloat(lngStr, 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "Invalid lat/lng value",
			})
			return
		}
		origin = &model.Location{Latitude: lat, Longitude: lng}
	}

	toilets, err := h.toiletsService.SearchToilets(c.Request.Context(), keyword, origin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to search toilets: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"toilets": toilets,
	})
}

// parseFloatQuery 必須の数値クエリパラメータを解析する
func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	value := c.Query(name)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": name + " parameter is required",
		})
		return 0, false
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid " + name + " value",
		})
		return 0, false
	}

	return parsed, true
}

// clientID アナリティクス用の識別子を取得する（未認証時は匿名）
func clientID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return "anonymous"
}
