package models

// 断食阶段（静态表，不落库）
// 区间左闭右开，按小时计；最后一个阶段 RangeEndHours 为 0 表示无上界
type FastingStage struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	EnglishName     string  `json:"english_name"`
	RangeStartHours float64 `json:"range_start_hours"`
	RangeEndHours   float64 `json:"range_end_hours"` // 0 = 无上界（仅末项）
	Description     string  `json:"description"`
	Detail          string  `json:"detail,omitempty"`
	Tip             string  `json:"tip,omitempty"`
}

// 阶段边界是固定文案阈值，不是医学模型；改动会破坏前端兼容
var Stages = []FastingStage{
	{
		ID:              "stage1",
		Name:            "血糖上升期",
		EnglishName:     "Blood Sugar Rise",
		RangeStartHours: 0,
		RangeEndHours:   4,
		Description:     "身体还在消化最后一餐，血糖和胰岛素处于高位。",
		Detail:          "刚开始断食，身体以葡萄糖为主要能量来源。",
		Tip:             "多喝水，转移注意力，别被「假饿」骗了。",
	},
	{
		ID:              "stage2",
		Name:            "血糖下降期",
		EnglishName:     "Blood Sugar Fall",
		RangeStartHours: 4,
		RangeEndHours:   12,
		Description:     "血糖逐渐回落，胰岛素水平下降，身体开始动用糖原储备。",
		Detail:          "肝糖原被持续消耗，脂肪供能比例慢慢上升。",
		Tip:             "可以喝黑咖啡或茶，帮助平稳度过饥饿波动。",
	},
	{
		ID:              "stage3",
		Name:            "燃脂期",
		EnglishName:     "Fat Burning",
		RangeStartHours: 12,
		RangeEndHours:   18,
		Description:     "糖原接近耗尽，身体切换到以脂肪为主的供能模式。",
		Detail:          "脂肪分解加速，酮体开始产生。",
		Tip:             "这是断食收益最明显的阶段，坚持住。",
	},
	{
		ID:              "stage4",
		Name:            "酮体生成期",
		EnglishName:     "Ketosis",
		RangeStartHours: 18,
		RangeEndHours:   24,
		Description:     "酮体水平显著升高，大脑开始部分使用酮体供能。",
		Detail:          "部分人会感到精神清晰、食欲下降。",
		Tip:             "注意补充电解质，出现明显不适请及时进食。",
	},
	{
		ID:              "stage5",
		Name:            "深度燃脂期",
		EnglishName:     "Deep Fasting",
		RangeStartHours: 24,
		RangeEndHours:   0,
		Description:     "自噬等深度代谢过程增强，属于长时间断食阶段。",
		Detail:          "超过 24 小时的断食应量力而行。",
		Tip:             "长断食请在身体状况良好时进行，必要时咨询医生。",
	},
}
