package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
	"github.com/mmynk/casal/pkg/api"
	"github.com/mmynk/casal/pkg/api/apiconnect"
)

// CategoryService implements the Connect CategoryService.
type CategoryService struct {
	apiconnect.UnimplementedCategoryServiceHandler
	store   storage.CategoryStore
	wallets *WalletCache
}

func NewCategoryService(store storage.CategoryStore, wallets *WalletCache) *CategoryService {
	return &CategoryService{store: store, wallets: wallets}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError("CreateCategory", badRequest("name is required"))
	}

	category := &models.Category{UserID: userID, Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, toConnectError("CreateCategory", err)
	}
	return connect.NewResponse(&api.CreateCategoryResponse{Category: categoryToAPI(category)}), nil
}

func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListCategories", err)
	}
	resp := &api.ListCategoriesResponse{Categories: make([]*api.Category, len(categories))}
	for i, c := range categories {
		resp.Categories[i] = categoryToAPI(c)
	}
	return connect.NewResponse(resp), nil
}

// DeleteCategory removes a category; its transactions become uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[emptypb.Empty], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteCategory(ctx, userID, req.Msg.CategoryID); err != nil {
		return nil, toConnectError("DeleteCategory", err)
	}
	s.wallets.InvalidateUser(userID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
