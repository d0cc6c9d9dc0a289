package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooks  *appbook.ListBooksUseCase
	getBook    *appbook.GetBookUseCase
	createBook *appbook.CreateBookUseCase
	updateBook *appbook.UpdateBookUseCase
	deleteBook *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooks:  listBooks,
		getBook:    getBook,
		createBook: createBook,
		updateBook: updateBook,
		deleteBook: deleteBook,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  全部图书,按ID升序,不分页
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.listBooks.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, apperrors.GetAppError(err).WithMessage("Error retrieving books"))
		return
	}
	response.SuccessWithCount(c, result.Count, dto.FromBooks(result.Books))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	result, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "", dto.FromBook(result))
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  title、author去空白后不能为空,stock省略时为0
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        X-User-Role header string true "admin"
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createBook.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:  req.Title,
		Author: req.Author,
		Stock:  req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Book created successfully", dto.FromBook(result))
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  部分更新,省略的字段保持原值
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        X-User-Role header string true "admin"
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "修改内容"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
		Stock:  req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "Book updated successfully", dto.FromBook(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  同时删除该书的全部借阅记录
// @Tags         图书
// @Produce      json
// @Param        X-User-Role header string true "admin"
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "info说明级联删除的借阅记录数"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	result, err := h.deleteBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithInfo(c, "Book deleted successfully", result.Info())
}

// bookID 解析路径参数id
// 无法解析的id等同于不存在的图书
func bookID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		response.Error(c, book.ErrBookNotFound.WithMessage(fmt.Sprintf("Book with id %s not found", raw)))
		return 0, false
	}
	return uint(id), true
}
