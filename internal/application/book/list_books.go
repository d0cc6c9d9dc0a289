package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksResponse 列表响应,Count即len(Books)
type ListBooksResponse struct {
	Count int
	Books []*BookResponse
}

// Execute 全部图书,按ID升序,不分页
func (uc *ListBooksUseCase) Execute(ctx context.Context) (*ListBooksResponse, error) {
	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, toResponse(b))
	}
	return &ListBooksResponse{Count: len(items), Books: items}, nil
}
