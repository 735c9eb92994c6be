package main

import (
	"context"

	"sales-kpi/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

func kpiKnowledge() []sdk.NL2SQLKnowledgeCreateRequest {
	return []sdk.NL2SQLKnowledgeCreateRequest{
		{Type: "glossary", Key: "有効メール", Value: []string{"valid_emails_manual + valid_emails_outsource。返信率・資料閲覧率・動画視聴率の分母"}},
		{Type: "glossary", Key: "返信率", Value: []string{"返信数 / 有効メール数 * 100。小数第2位で四捨五入"}},
		{Type: "glossary", Key: "商談化率", Value: []string{"商談数 / 返信数 * 100"}},
		{Type: "glossary", Key: "成約率", Value: []string{"成約数 / 商談数 * 100"}},
		{Type: "glossary", Key: "案件化率", Value: []string{"案件化数 / 商談数 * 100"}},
		{Type: "glossary", Key: "進行中案件", Value: []string{"daily_kpi.ongoing_projects。日々の残高なので週の合計ではなく週内最終日の値を使う"}},

		{Type: "synonyms", Key: "担当者/営業/誰", Value: []string{"営業担当者名"}, AssociateTables: []string{"users,name"}},
		{Type: "synonyms", Key: "返信/レス", Value: []string{"返信数"}, AssociateTables: []string{"daily_kpi,replies_received"}},
		{Type: "synonyms", Key: "商談/アポ/ミーティング", Value: []string{"商談数"}, AssociateTables: []string{"daily_kpi,meetings_scheduled"}},
		{Type: "synonyms", Key: "成約/受注/クロージング", Value: []string{"成約数"}, AssociateTables: []string{"daily_kpi,deals_closed"}},

		{Type: "logic", Key: "週はweek_startから6日後までの7日間（両端を含む）", Value: []string{"date BETWEEN week_start AND DATE_ADD(week_start, INTERVAL 6 DAY)"}},
		{Type: "logic", Key: "率の分母が0の場合は0として扱う", Value: []string{"CASE WHEN 分母 = 0 THEN 0 ELSE ROUND(分子 * 100 / 分母, 2) END"}},
		{Type: "logic", Key: "担当者名はdaily_kpi.user_idとusers.idを結合して取得する", Value: []string{"JOIN users ON daily_kpi.user_id = users.id"}},

		{Type: "case_library", Key: "今週の返信率", Value: []string{"SELECT ROUND(SUM(replies_received) * 100 / NULLIF(SUM(valid_emails_manual + valid_emails_outsource), 0), 2) AS reply_rate FROM daily_kpi WHERE date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY)"}},
		{Type: "case_library", Key: "今日KPIを入力していない担当者", Value: []string{"SELECT u.name FROM users u LEFT JOIN daily_kpi d ON u.id = d.user_id AND d.date = CURDATE() WHERE d.id IS NULL"}},
		{Type: "case_library", Key: "担当者別の今月の成約数", Value: []string{"SELECT u.name, SUM(d.deals_closed) AS deals FROM daily_kpi d JOIN users u ON d.user_id = u.id WHERE d.date >= DATE_FORMAT(CURDATE(), '%Y-%m-01') GROUP BY u.name ORDER BY deals DESC"}},
	}
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range kpiKnowledge() {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
