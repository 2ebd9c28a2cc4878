package aggregator

import "github.com/chrisdamba/foodspend/internal/models"

func highlight(r *record) models.OrderHighlight {
	if r == nil {
		return models.OrderHighlight{Restaurant: models.UnknownRestaurant}
	}
	return models.OrderHighlight{
		Amount:     roundMoney(r.amount),
		Restaurant: r.restaurant,
		Date:       r.order.OrderTime.String(),
	}
}

func buildSummary(records []record) models.SummaryStats {
	var total, fees, savings float64
	var most, cheapest *record
	for i := range records {
		r := &records[i]
		total += r.amount
		fees += DeliveryFee(r.order)
		savings += Discount(r.order)

		if most == nil || r.amount > most.amount {
			most = r
		}
		if r.amount > 0 && (cheapest == nil || r.amount < cheapest.amount) {
			cheapest = r
		}
	}
	if cheapest == nil && len(records) > 0 {
		cheapest = &records[0]
	}

	return models.SummaryStats{
		TotalSpent:         roundMoney(total),
		TotalOrders:        len(records),
		AvgOrderValue:      average(total, len(records)),
		TotalDeliveryFees:  roundMoney(fees),
		TotalSavings:       roundMoney(savings),
		MostExpensiveOrder: highlight(most),
		CheapestOrder:      highlight(cheapest),
	}
}
