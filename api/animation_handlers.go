package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"keyvis/visualizer"
)

// handleGetAnimations 获取已注册和正在播放的动画
func (s *Server) handleGetAnimations(c *gin.Context) {
	registered := s.scheduler.Engine().Registered()
	active := s.scheduler.Snapshot().Active
	if active == nil {
		active = []string{}
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: AnimationListResponse{
			Registered: registered,
			Active:     active,
			Total:      len(registered),
		},
	})
}

// handleStartAnimation 启动动画，在调度循环的下一轮生效
func (s *Server) handleStartAnimation(c *gin.Context) {
	anim, ok := s.lookupAnimation(c)
	if !ok {
		return
	}

	s.scheduler.Do(func(st *visualizer.State) { st.Start(anim) })

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("动画 %s 已加入启动队列", anim.Name),
	})
}

// handleStopAnimation 停止动画
func (s *Server) handleStopAnimation(c *gin.Context) {
	anim, ok := s.lookupAnimation(c)
	if !ok {
		return
	}

	s.scheduler.Do(func(st *visualizer.State) { st.Stop(anim) })

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: fmt.Sprintf("动画 %s 已加入停止队列", anim.Name),
	})
}

// handleStopAllAnimations 停止所有动画
func (s *Server) handleStopAllAnimations(c *gin.Context) {
	s.scheduler.Do(func(st *visualizer.State) { st.Animations.StopAll() })

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "所有动画已加入停止队列",
	})
}

func (s *Server) lookupAnimation(c *gin.Context) (*visualizer.KeyframeAnimation, bool) {
	name := c.Param("name")
	anim, ok := s.scheduler.Engine().Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, ApiResponse{
			Status: "error",
			Error:  fmt.Sprintf("动画 %s 不存在", name),
		})
		return nil, false
	}
	return anim, true
}
