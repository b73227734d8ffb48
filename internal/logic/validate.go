package logic

import (
	"net/mail"
	"net/url"
	"regexp"

	"github.com/0xdevcollins/boundless-backend-sub001/internal/errs"
	"github.com/ethereum/go-ethereum/common"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// validateCreateRequest 创建项目的全量校验，在任何外部调用和持久化之前执行
func validateCreateRequest(req *CreateProjectRequest) error {
	if req.Title == "" {
		return errs.Validation("项目标题不能为空")
	}
	if req.Vision == "" {
		return errs.Validation("项目愿景不能为空")
	}
	if req.Category == "" {
		return errs.Validation("项目分类不能为空")
	}
	if req.GoalAmount <= 0 {
		return errs.Validation("目标金额必须大于0")
	}
	if !isValidAddress(req.SignerAddress) {
		return errs.Validation("签名地址格式无效")
	}
	if req.ImageURL != "" && !isValidURL(req.ImageURL) {
		return errs.Validation("项目图片链接格式无效")
	}

	if len(req.Milestones) == 0 {
		return errs.Validation("至少需要一个里程碑")
	}
	for i, m := range req.Milestones {
		if m.Title == "" {
			return errs.Validation("第%d个里程碑标题不能为空", i+1)
		}
		if m.StartTime.IsZero() || m.DueTime.IsZero() {
			return errs.Validation("第%d个里程碑日期不能为空", i+1)
		}
		if !m.StartTime.Before(m.DueTime) {
			return errs.Validation("第%d个里程碑开始时间必须早于截止时间", i+1)
		}
		// 里程碑按顺序排列且日期区间不重叠
		if i > 0 && m.StartTime.Before(req.Milestones[i-1].DueTime) {
			return errs.Validation("第%d个里程碑与上一个里程碑日期区间重叠", i+1)
		}
	}

	if len(req.TeamMembers) == 0 {
		return errs.Validation("至少需要一名团队成员")
	}
	for i, tm := range req.TeamMembers {
		if tm.Name == "" {
			return errs.Validation("第%d名团队成员姓名不能为空", i+1)
		}
		if !isValidEmail(tm.Email) {
			return errs.Validation("第%d名团队成员邮箱格式无效", i+1)
		}
	}

	if len(req.SocialLinks) == 0 {
		return errs.Validation("至少需要一个社交链接")
	}
	for i, sl := range req.SocialLinks {
		if !isValidURL(sl.URL) {
			return errs.Validation("第%d个社交链接格式无效", i+1)
		}
	}

	return nil
}

// isValidEmail 校验邮箱格式
func isValidEmail(address string) bool {
	if address == "" {
		return false
	}
	_, err := mail.ParseAddress(address)
	return err == nil
}

// isValidURL 校验URL格式
func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// isValidAddress 校验签名地址格式
func isValidAddress(address string) bool {
	return common.IsHexAddress(address)
}

// isValidTxHash 校验交易哈希格式
func isValidTxHash(hash string) bool {
	return txHashPattern.MatchString(hash)
}

// splitGoal 目标金额按里程碑数量等分，整数除法的余数并入最后一个里程碑，
// 保证各里程碑金额之和恰好等于目标金额
func splitGoal(goal int64, count int) []int64 {
	amounts := make([]int64, count)
	base := goal / int64(count)
	for i := range amounts {
		amounts[i] = base
	}
	amounts[count-1] += goal - base*int64(count)
	return amounts
}
