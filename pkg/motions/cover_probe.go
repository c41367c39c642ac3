package motions

import (
	"github.com/decker502/locomotion/pkg/physics"
	"github.com/decker502/locomotion/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// CoverProbeResult 掩体探测结果
type CoverProbeResult struct {
	Found bool
	// IsLow 低掩体（只有低射线命中，或低射线比高射线近）
	IsLow bool
	// Hit 用于贴墙的命中（低掩体为低射线，否则为高射线）
	Hit physics.RaycastHit
}

// CoverProber 掩体与拐角射线探测
type CoverProber struct {
	Raycaster  physics.Raycaster
	Distance   float64
	HighHeight float64
	LowHeight  float64
	Step       float64
}

// ProbeCover 沿 direction 在两个高度探测掩体
//
// 先在高处投射，再在低处投射；低射线命中且（高射线未命中或低射线严格更近）时为低掩体。
// 两条射线都未命中时 Found 为 false。
func (p *CoverProber) ProbeCover(position mgl64.Vec3, direction mgl64.Vec3) CoverProbeResult {
	if p.Raycaster == nil || direction.Len() == 0 {
		return CoverProbeResult{}
	}
	dir := utils.ProjectOnPlane(direction, utils.WorldUp)
	if dir.Len() == 0 {
		return CoverProbeResult{}
	}
	dir = dir.Normalize()

	high, highOK := p.Raycaster.Raycast(position.Add(utils.WorldUp.Mul(p.HighHeight)), dir, p.Distance)
	low, lowOK := p.Raycaster.Raycast(position.Add(utils.WorldUp.Mul(p.LowHeight)), dir, p.Distance)

	switch {
	case lowOK && (!highOK || low.Distance < high.Distance):
		return CoverProbeResult{Found: true, IsLow: true, Hit: low}
	case highOK:
		return CoverProbeResult{Found: true, Hit: high}
	default:
		return CoverProbeResult{}
	}
}

// ProbeCorner 探测朝向一侧的掩体拐角
//
// 返回拐角边缘的有符号横向距离（左负右正），没有可用拐角时返回 0：
//  1. 侧向射线命中：紧贴相邻墙，没有拐角
//  2. 侧移 viewDistance 后向前的射线命中：墙面延续，没有拐角
//  3. 以 Step 为步长向外移动探测点直到 Distance，第一处向前射线未命中即为边缘，
//     返回该距离减去半步
func (p *CoverProber) ProbeCorner(position mgl64.Vec3, rotation mgl64.Quat, facingLeft bool, viewDistance float64) float64 {
	if p.Raycaster == nil || p.Step <= 0 {
		return 0
	}

	sign := 1.0
	if facingLeft {
		sign = -1
	}
	lateral := utils.RightOf(rotation).Mul(sign)
	forward := utils.ForwardOf(rotation)
	origin := position.Add(utils.WorldUp.Mul(p.LowHeight))

	if _, hit := p.Raycaster.Raycast(origin, lateral, viewDistance); hit {
		return 0
	}
	if _, hit := p.Raycaster.Raycast(origin.Add(lateral.Mul(viewDistance)), forward, p.Distance); hit {
		return 0
	}

	steps := int(p.Distance/p.Step + 1e-9)
	for i := 1; i <= steps; i++ {
		d := float64(i) * p.Step
		if _, hit := p.Raycaster.Raycast(origin.Add(lateral.Mul(d)), forward, p.Distance); !hit {
			return sign * (d - p.Step/2)
		}
	}
	return 0
}
