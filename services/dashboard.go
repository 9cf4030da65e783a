package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
)

const recentPerKind = 5

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type DashboardService struct {
	customers database.CustomerRepository
	users     database.UserRepository
}

func NewDashboardService(customers database.CustomerRepository, users database.UserRepository) *DashboardService {
	return &DashboardService{customers: customers, users: users}
}

// Get builds the dashboard as of now: totals, the customer sign-ups per
// month of now's year, and the latest customers and users.
func (s *DashboardService) Get(ctx context.Context, now time.Time) (*models.Dashboard, error) {
	stats, err := s.customers.Stats(ctx)
	if err != nil {
		return nil, err
	}
	months, err := s.customers.MonthlyCreated(ctx, now.UTC().Year())
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Recent(ctx, recentPerKind)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Recent(ctx, recentPerKind)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		KPIs: map[string]models.KPI{
			"totalMembers":          {Value: float64(stats.Count), Target: 100, Unit: "Members"},
			"totalRevenue":          {Value: stats.PaidAmount, Target: 100000, Unit: "$"},
			"totalAmountWillBePaid": {Value: stats.AmountWillPay, Target: 100000, Unit: "$"},
			"activeReferrals":       {Value: float64(stats.WithReferrer), Target: 75, Unit: "Active"},
		},
		MonthlyReferrals: make([]models.MonthlyCount, 0, 12),
	}
	for i, n := range months {
		d.MonthlyReferrals = append(d.MonthlyReferrals, models.MonthlyCount{Name: monthNames[i], Referrals: n})
	}

	type dated struct {
		at time.Time
		a  models.Activity
	}
	var acts []dated
	for _, c := range customers {
		acts = append(acts, dated{c.CreatedAt, models.Activity{
			ID:          "cust-" + c.Id.Hex(),
			Type:        "New Customer",
			Description: fmt.Sprintf("Customer %s joined.", c.Name),
		}})
	}
	for _, u := range users {
		who := u.Name
		if who == "" {
			who = u.Email
		}
		acts = append(acts, dated{u.CreatedAt, models.Activity{
			ID:          "user-" + u.ID.Hex(),
			Type:        "New User Registration",
			Description: fmt.Sprintf("User %s registered.", who),
		}})
	}
	slices.SortStableFunc(acts, func(a, b dated) int { return b.at.Compare(a.at) })

	d.RecentActivities = make([]models.Activity, 0, len(acts))
	for _, act := range acts {
		act.a.Date = act.at.UTC().Format(time.DateOnly)
		d.RecentActivities = append(d.RecentActivities, act.a)
	}
	return d, nil
}
