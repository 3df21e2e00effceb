package service

import (
	"strings"

	"github.com/mmynk/smartsplit/internal/analytics"
	"github.com/mmynk/smartsplit/internal/calculator"
	"github.com/mmynk/smartsplit/internal/models"
	"github.com/mmynk/smartsplit/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func itemsToAPI(items []models.ReceiptItem) []api.Item {
	out := make([]api.Item, len(items))
	for i, item := range items {
		out[i] = api.Item{ID: item.ID, Name: item.Name, Price: item.Price, Splitters: item.Splitters}
	}
	return out
}

// itemsFromAPI trims names and drops client-supplied IDs; items are numbered
// by position.
func itemsFromAPI(items []api.Item) ([]models.ReceiptItem, error) {
	out := make([]models.ReceiptItem, len(items))
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, errItemName
		}
		out[i] = models.ReceiptItem{ID: i + 1, Name: name, Price: item.Price}
	}
	return out, nil
}

func receiptToAPI(r *models.Receipt) *api.Receipt {
	out := &api.Receipt{
		ID:        r.ID,
		Title:     r.Title,
		Category:  r.Category,
		Items:     itemsToAPI(r.Items),
		Subtotal:  r.Subtotal,
		Tax:       r.Tax,
		Tip:       r.Tip,
		Total:     r.Total,
		ImageURL:  r.ImageURL,
		Finalized: r.Finalized,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, d := range r.Splits {
		out.Splits = append(out.Splits, api.MemberShare{Name: d.Name, Amount: d.Amount})
	}
	return out
}

func summaryToAPI(r *models.Receipt) api.ReceiptSummary {
	return api.ReceiptSummary{
		ID:        r.ID,
		Title:     r.Title,
		Category:  r.Category,
		Total:     r.Total,
		ItemCount: len(r.Items),
		Finalized: r.Finalized,
		CreatedAt: r.CreatedAt,
	}
}

func splitToAPI(res *calculator.Result) *api.Split {
	percents := calculator.PercentOfTotal(res.Owed())
	out := &api.Split{
		Subtotal: res.Subtotal.InexactFloat64(),
		Tax:      res.Tax.InexactFloat64(),
		Tip:      res.Tip.InexactFloat64(),
		Total:    res.Total.InexactFloat64(),
		People:   make([]api.PersonSplit, len(res.Splits)),
		Summary:  res.Summary(),
	}
	for i, p := range res.Splits {
		items := make([]api.PersonItem, len(p.Items))
		for j, it := range p.Items {
			items[j] = api.PersonItem{ItemID: it.ItemID, Name: it.Description, Amount: it.Amount.InexactFloat64()}
		}
		out.People[i] = api.PersonSplit{
			Name:     p.Member,
			Subtotal: p.Subtotal.InexactFloat64(),
			Tax:      p.Tax.InexactFloat64(),
			Tip:      p.Tip.InexactFloat64(),
			Total:    p.Total.InexactFloat64(),
			Percent:  percents[p.Member].InexactFloat64(),
			Items:    items,
		}
	}
	return out
}

func splitDetails(res *calculator.Result) []models.SplitDetail {
	out := make([]models.SplitDetail, len(res.Splits))
	for i, p := range res.Splits {
		out[i] = models.SplitDetail{Name: p.Member, Amount: p.Total.InexactFloat64()}
	}
	return out
}

func analyticsToAPI(s *analytics.Summary) *api.Analytics {
	out := &api.Analytics{
		TotalSpent:     s.TotalSpent,
		ReceiptCount:   s.ReceiptCount,
		AverageReceipt: s.AverageReceipt,
		Monthly:        make([]api.MonthTotal, len(s.Monthly)),
		Categories:     make([]api.CategoryTotal, len(s.Categories)),
		Members:        make([]api.MemberStat, len(s.Members)),
	}
	for i, m := range s.Monthly {
		out.Monthly[i] = api.MonthTotal{Month: m.Month, Total: m.Total}
	}
	for i, c := range s.Categories {
		out.Categories[i] = api.CategoryTotal{Category: c.Category, Total: c.Total}
	}
	for i, m := range s.Members {
		out.Members[i] = api.MemberStat{Name: m.Name, Count: m.Count, Total: m.Total}
	}
	return out
}
