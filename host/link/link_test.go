package link

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ioports/ioport"
	"ioports/monitor"
	"ioports/sim"
)

const seed = 0xBE9

type linkSuite struct {
	suite.Suite
	board *sim.Board
	mon   *monitor.Monitor
	link  *Link
	done  chan error
}

func TestLink(t *testing.T) {
	suite.Run(t, new(linkSuite))
}

func serve(board *sim.Board) (*monitor.Monitor, net.Conn, chan error) {
	ports := make([]monitor.Port, len(board.Ports))
	for i, p := range board.Ports {
		ports[i] = p
	}
	mon := monitor.New(ports...)
	hostEnd, devEnd := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- mon.Serve(devEnd)
		devEnd.Close()
	}()
	return mon, hostEnd, done
}

func (s *linkSuite) SetupTest() {
	s.board = sim.NewBoard(seed)
	var conn net.Conn
	s.mon, conn, s.done = serve(s.board)
	s.link = New(conn)
	dict, err := s.link.Identify()
	s.Require().NoError(err)
	s.Require().Equal(s.mon.Registry().Dictionary(), dict)
}

func (s *linkSuite) TearDownTest() {
	s.NoError(s.link.Close())
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("monitor did not stop")
	}
}

func (s *linkSuite) TestCommands() {
	cmds := s.link.Commands()
	s.Len(cmds, s.mon.Registry().Count())
	s.Equal("identify_response offset=%u data=%*s", cmds[0])
	s.Contains(cmds, "port_config port=%c mask=%u config=%u")
}

func (s *linkSuite) TestDataOps() {
	v, err := s.link.Write('A', 0x0F0F)
	s.NoError(err)
	s.Equal(ioport.DataT(0x0F0F), v)

	v, err = s.link.Set('a', 0x1000)
	s.NoError(err)
	s.Equal(ioport.DataT(0x1F0F), v)

	v, err = s.link.Clear('A', 0x000F)
	s.NoError(err)
	s.Equal(ioport.DataT(0x1F00), v)

	v, err = s.link.Toggle('A', 0x0101)
	s.NoError(err)
	s.Equal(ioport.DataT(0x1E01), v)

	v, err = s.link.ClearAndSet('A', 0xFF00, 0x4200)
	s.NoError(err)
	s.Equal(ioport.DataT(0x4201), v)

	v, err = s.link.Read('A')
	s.NoError(err)
	s.Equal(ioport.DataT(0x4201), v)
	s.Equal(v, s.board.Port('A').Read())
}

func (s *linkSuite) TestConfigureAllPresets() {
	twin := sim.NewBoard(seed)
	mask := ioport.DataT(0x8421)
	for _, name := range ioport.PresetNames() {
		cfg, ok := ioport.Preset(name)
		s.Require().True(ok)

		twin.Port('C').SetConfiguration(mask, cfg)
		got, err := s.link.Configure('C', mask, cfg)
		s.Require().NoError(err, name)
		s.Equal(twin.Port('C').Snapshot(), got, name)
	}
	s.Equal(twin.Port('C').Snapshot(), s.board.Port('C').Snapshot())
}

func (s *linkSuite) TestConfigureLeavesOtherPins() {
	before, err := s.link.Dump('E')
	s.Require().NoError(err)
	after, err := s.link.Configure('E', 0x0001, ioport.OutFastest|ioport.PullUp)
	s.Require().NoError(err)

	diff := before.Diff(after)
	s.Zero(diff.OE&^0x0001, "OE")
	s.Zero(diff.ANALOG&^0x0001, "ANALOG")
	s.Zero(diff.FUNC&^0x0003, "FUNC")
	s.Zero(diff.PWR&^0x0003, "PWR")
	s.Zero(diff.PULL&^0x00010001, "PULL")
	s.Zero(diff.PD&^0x00010001, "PD")
	s.Zero(diff.RXTX, "RXTX")
}

func (s *linkSuite) TestClock() {
	s.NoError(s.link.Clock('B', true))
	s.True(s.board.Bank('B').Gate.Enabled())
	s.NoError(s.link.Clock('B', false))
	s.False(s.board.Bank('B').Gate.Enabled())
}

func (s *linkSuite) TestUnknownPort() {
	_, err := s.link.Read('Q')
	s.Require().Error(err)
	cerr, ok := err.(*CommandError)
	s.Require().True(ok, "%T", err)
	s.Equal("port_read", cerr.Command)
	s.Equal(monitor.ErrUnknownPort.Error(), cerr.Message)

	_, err = s.link.Read('A')
	s.NoError(err)
}

func (s *linkSuite) TestUnknownCommand() {
	_, err := s.link.call("port_frobnicate", "port_state")
	s.Error(err)
}

func TestNoIdentify(t *testing.T) {
	_, conn, done := serve(sim.NewBoard(seed))
	l := New(conn)
	_, err := l.Read('A')
	assert.Error(t, err)
	require.NoError(t, l.Close())
	<-done
}

func TestTimeout(t *testing.T) {
	hostEnd, devEnd := net.Pipe()
	defer devEnd.Close()
	go func() {
		buf := make([]byte, 64)
		for {
			if _, err := devEnd.Read(buf); err != nil {
				return
			}
		}
	}()
	l := New(hostEnd)
	l.SetTimeout(20 * time.Millisecond)
	_, err := l.Identify()
	assert.Error(t, err)
	assert.NoError(t, l.Close())
}
