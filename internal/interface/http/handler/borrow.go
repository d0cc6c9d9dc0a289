package handler

import (
	"github.com/gin-gonic/gin"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// BorrowHandler 借阅HTTP处理器
type BorrowHandler struct {
	borrowBook *appborrow.BorrowBookUseCase
}

// NewBorrowHandler 创建借阅处理器
func NewBorrowHandler(borrowBook *appborrow.BorrowBookUseCase) *BorrowHandler {
	return &BorrowHandler{borrowBook: borrowBook}
}

// BorrowBook 借阅图书
// @Summary      借阅图书
// @Description  校验坐标后在一个事务内扣减库存并写入借阅记录
// @Tags         借阅
// @Accept       json
// @Produce      json
// @Param        X-User-Role header string true "user"
// @Param        X-User-Id header int true "用户ID"
// @Param        request body dto.BorrowRequest true "借阅信息"
// @Success      201 {object} response.Response{data=dto.BorrowResponse}
// @Failure      400 {object} response.Response "缺少字段或坐标越界"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "库存不足"
// @Failure      500 {object} response.Response "事务失败"
// @Router       /api/borrow [post]
func (h *BorrowHandler) BorrowBook(c *gin.Context) {
	var req dto.BorrowRequest
	if !bindJSON(c, &req) {
		return
	}

	// 调用方身份由RequireUser中间件注入
	result, err := h.borrowBook.Execute(c.Request.Context(), appborrow.BorrowBookRequest{
		Principal: middleware.GetPrincipal(c),
		BookID:    req.BookID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book borrowed successfully", &dto.BorrowResponse{
		BorrowID:   result.BorrowID,
		UserID:     result.UserID,
		BookID:     result.BookID,
		BookTitle:  result.BookTitle,
		BorrowDate: result.BorrowDate,
		Location: dto.LocationResponse{
			Latitude:  result.Location.Latitude,
			Longitude: result.Location.Longitude,
		},
		RemainingStock: result.RemainingStock,
	})
}
