package service

import (
	"context"
	"errors"
	"strings"

	"SupportDesk/internal/modules/kb/application/dto/request"
	"SupportDesk/internal/modules/kb/application/dto/respond"
	"SupportDesk/internal/modules/kb/domain/entity"
	"SupportDesk/internal/modules/kb/domain/repository"
	"SupportDesk/pkg/hook"
	"SupportDesk/pkg/util"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"gorm.io/gorm"
)

type ArticleService interface {
	Create(ctx context.Context, authorID string, req request.CreateArticleRequest) (*respond.ArticleItem, error)
	Get(ctx context.Context, id string) (*respond.ArticleItem, error)
	List(ctx context.Context, staff bool, req request.ListArticleRequest) (*respond.ArticleList, error)
	Update(ctx context.Context, id string, req request.UpdateArticleRequest) (*respond.ArticleItem, error)
	Delete(ctx context.Context, id string) error
}

type articleServiceImpl struct {
	repo repository.ArticleRepository
	bus  hook.Emitter
}

func NewArticleService(repo repository.ArticleRepository, bus hook.Emitter) ArticleService {
	return &articleServiceImpl{repo: repo, bus: bus}
}

func (s *articleServiceImpl) Create(ctx context.Context, authorID string, req request.CreateArticleRequest) (*respond.ArticleItem, error) {
	article := &entity.Article{
		ID:       util.GenerateUUID(),
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		AuthorID: authorID,
		IsPublic: req.IsPublic == nil || *req.IsPublic,
	}
	if article.Title == "" {
		return nil, xerr.New(xerr.BadRequest, "title is required")
	}
	if err := s.repo.Create(ctx, article); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.KBArticleCreated, article)
	return toArticleItem(article), nil
}

func (s *articleServiceImpl) Get(ctx context.Context, id string) (*respond.ArticleItem, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		zlog.Warn(err.Error())
	} else {
		article.Views++
	}
	return toArticleItem(article), nil
}

// List 非工作人员只能看到公开文章
func (s *articleServiceImpl) List(ctx context.Context, staff bool, req request.ListArticleRequest) (*respond.ArticleList, error) {
	list, total, err := s.repo.List(ctx, !staff, req.Limit, req.Offset)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := &respond.ArticleList{Items: make([]respond.ArticleItem, 0, len(list)), Total: total}
	for i := range list {
		out.Items = append(out.Items, *toArticleItem(&list[i]))
	}
	return out, nil
}

func (s *articleServiceImpl) Update(ctx context.Context, id string, req request.UpdateArticleRequest) (*respond.ArticleItem, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		article.Title = strings.TrimSpace(*req.Title)
		fields["title"] = article.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
		fields["content"] = article.Content
	}
	if req.IsPublic != nil {
		article.IsPublic = *req.IsPublic
		fields["is_public"] = article.IsPublic
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.KBArticleUpdated, article)
	return toArticleItem(article), nil
}

func (s *articleServiceImpl) Delete(ctx context.Context, id string) error {
	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}

	s.bus.Emit(ctx, hook.KBArticleDeleted, article)
	return nil
}

func (s *articleServiceImpl) load(ctx context.Context, id string) (*entity.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "article not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return article, nil
}

func toArticleItem(a *entity.Article) *respond.ArticleItem {
	return &respond.ArticleItem{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		AuthorID:  a.AuthorID,
		Views:     a.Views,
		IsPublic:  a.IsPublic,
		CreatedAt: util.FormatUTC(a.CreatedAt),
		UpdatedAt: util.FormatUTC(a.UpdatedAt),
	}
}
